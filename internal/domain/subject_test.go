package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectValid(t *testing.T) {
	assert.True(t, SubjectHistory.Valid())
	assert.True(t, SubjectScienceFiction.Valid())
	assert.False(t, Subject("GARDENING").Valid())
	assert.False(t, Subject("").Valid())
}

func TestAllSubjectsIsACopy(t *testing.T) {
	subjects := AllSubjects()
	assert.Len(t, subjects, 24)

	subjects[0] = Subject("MUTATED")
	assert.Equal(t, SubjectArts, AllSubjects()[0])
}

func TestCategoryFilterMatches(t *testing.T) {
	arts := Book{ID: "book-1", Subject: SubjectArts}
	humor := Book{ID: "book-2", Subject: SubjectHumor}

	all := AllCategories()
	assert.True(t, all.Matches(arts))
	assert.True(t, all.Matches(humor))

	onlyArts := BySubject(SubjectArts)
	assert.True(t, onlyArts.Matches(arts))
	assert.False(t, onlyArts.Matches(humor))
}

func TestCategoryFilterZeroValueMatchesAll(t *testing.T) {
	var f CategoryFilter
	assert.True(t, f.Matches(Book{Subject: SubjectTravel}))

	_, scoped := f.Subject()
	assert.False(t, scoped)
}
