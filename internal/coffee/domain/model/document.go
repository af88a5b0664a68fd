package model

import (
	apperrors "coffee-store/internal/shared/errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Well-known document fields. None of them is enforced on write.
const (
	FieldID             = "_id"
	FieldEmail          = "email"
	FieldLastSignInTime = "lastSignInTime"
)

// Document is a schema-less record as stored in a collection.
type Document map[string]interface{}

// ID returns the store-assigned identifier, if the document carries one.
func (d Document) ID() (primitive.ObjectID, bool) {
	id, ok := d[FieldID].(primitive.ObjectID)
	return id, ok
}

// IDHex returns the identifier in its 24-character hex form, or "" when absent.
func (d Document) IDHex() string {
	switch id := d[FieldID].(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return ""
	}
}

// Email returns the conventional email field of a user record.
func (d Document) Email() (string, bool) {
	email, ok := d[FieldEmail].(string)
	return email, ok
}

// LastSignInTime returns the raw lastSignInTime value, whatever its shape.
func (d Document) LastSignInTime() (interface{}, bool) {
	v, ok := d[FieldLastSignInTime]
	return v, ok
}

// Clone returns a shallow copy of d.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// ParseID builds a store identifier from its hex form.
func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.NewInvalidIDError(hex, err)
	}
	return id, nil
}

// IDFilter matches the single document with the given identifier.
func IDFilter(id primitive.ObjectID) Document {
	return Document{FieldID: id}
}
