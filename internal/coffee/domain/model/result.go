package model

// The acknowledgment types mirror what the document store reports for a write.
// Handlers return them uninterpreted.

// InsertResult acknowledges an insert and carries the generated identifier.
type InsertResult struct {
	Acknowledged bool        `json:"acknowledged"`
	InsertedID   interface{} `json:"insertedId"`
}

// UpdateResult acknowledges an update. UpsertedID is nil unless the update inserted.
type UpdateResult struct {
	Acknowledged  bool        `json:"acknowledged"`
	MatchedCount  int64       `json:"matchedCount"`
	ModifiedCount int64       `json:"modifiedCount"`
	UpsertedCount int64       `json:"upsertedCount"`
	UpsertedID    interface{} `json:"upsertedId"`
}

// DeleteResult acknowledges a delete.
type DeleteResult struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}
