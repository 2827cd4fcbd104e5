package domain

// Stock is a shard's holding of one book: the shard-local cost and the
// on-hand quantity.
type Stock struct {
	ShardID  string  `json:"shardId"`
	BookID   string  `json:"bookId"`
	Cost     float64 `json:"cost"`
	Quantity int     `json:"quantity"`
}
