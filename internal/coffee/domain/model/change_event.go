package model

import "time"

// ChangeType defines the kind of mutation a ChangeEvent reports.
type ChangeType string

const (
	ChangeTypeCreated ChangeType = "created"
	ChangeTypeUpdated ChangeType = "updated"
	ChangeTypeDeleted ChangeType = "deleted"
)

// Logical collection names.
const (
	CollectionCoffee = "coffee"
	CollectionUsers  = "users"
)

// Collections lists every collection served by the API.
var Collections = []string{CollectionCoffee, CollectionUsers}

// IsCollection reports whether name is one of the served collections.
func IsCollection(name string) bool {
	for _, c := range Collections {
		if c == name {
			return true
		}
	}
	return false
}

// ChangeEvent is announced after a write that touched at least one document.
type ChangeEvent struct {
	ID         string      `json:"id"`
	Type       ChangeType  `json:"type"`
	Collection string      `json:"collection"`
	DocumentID string      `json:"documentId,omitempty"`
	Data       Document    `json:"data,omitempty"`
	Result     interface{} `json:"result,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}
