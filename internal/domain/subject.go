package domain

// Subject is the closed category taxonomy for books.
type Subject string

// All subjects recognized by the catalog.
const (
	SubjectArts           Subject = "ARTS"
	SubjectBiographies    Subject = "BIOGRAPHIES"
	SubjectBusiness       Subject = "BUSINESS"
	SubjectChildren       Subject = "CHILDREN"
	SubjectComputers      Subject = "COMPUTERS"
	SubjectCooking        Subject = "COOKING"
	SubjectHealth         Subject = "HEALTH"
	SubjectHistory        Subject = "HISTORY"
	SubjectHome           Subject = "HOME"
	SubjectHumor          Subject = "HUMOR"
	SubjectLiterature     Subject = "LITERATURE"
	SubjectMystery        Subject = "MYSTERY"
	SubjectNonFiction     Subject = "NON_FICTION"
	SubjectParenting      Subject = "PARENTING"
	SubjectPolitics       Subject = "POLITICS"
	SubjectReference      Subject = "REFERENCE"
	SubjectReligion       Subject = "RELIGION"
	SubjectRomance        Subject = "ROMANCE"
	SubjectSelfHelp       Subject = "SELF_HELP"
	SubjectScienceNature  Subject = "SCIENCE_NATURE"
	SubjectScienceFiction Subject = "SCIENCE_FICTION"
	SubjectSports         Subject = "SPORTS"
	SubjectYouth          Subject = "YOUTH"
	SubjectTravel         Subject = "TRAVEL"
)

//nolint:gochecknoglobals // Static taxonomy.
var allSubjects = []Subject{
	SubjectArts, SubjectBiographies, SubjectBusiness, SubjectChildren,
	SubjectComputers, SubjectCooking, SubjectHealth, SubjectHistory,
	SubjectHome, SubjectHumor, SubjectLiterature, SubjectMystery,
	SubjectNonFiction, SubjectParenting, SubjectPolitics, SubjectReference,
	SubjectReligion, SubjectRomance, SubjectSelfHelp, SubjectScienceNature,
	SubjectScienceFiction, SubjectSports, SubjectYouth, SubjectTravel,
}

// AllSubjects returns the full taxonomy in stable order.
func AllSubjects() []Subject {
	out := make([]Subject, len(allSubjects))
	copy(out, allSubjects)
	return out
}

// Valid reports whether s is a recognized subject.
func (s Subject) Valid() bool {
	for _, known := range allSubjects {
		if s == known {
			return true
		}
	}
	return false
}

func (s Subject) String() string {
	return string(s)
}

// CategoryFilter selects books either across all categories or within one subject.
// The zero value matches all categories.
type CategoryFilter struct {
	subject Subject
	scoped  bool
}

// AllCategories returns a filter matching every book.
func AllCategories() CategoryFilter {
	return CategoryFilter{}
}

// BySubject returns a filter matching only books in the given subject.
func BySubject(s Subject) CategoryFilter {
	return CategoryFilter{subject: s, scoped: true}
}

// Matches reports whether the book passes the filter.
func (f CategoryFilter) Matches(b Book) bool {
	return !f.scoped || b.Subject == f.subject
}

// Subject returns the subject the filter is scoped to, if any.
func (f CategoryFilter) Subject() (Subject, bool) {
	return f.subject, f.scoped
}

func (f CategoryFilter) String() string {
	if !f.scoped {
		return "all"
	}
	return string(f.subject)
}
