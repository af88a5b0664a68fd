package utils

import (
	"context"
	"errors"

	"coffee-store/internal/shared/contextkeys"
)

// Common context errors
var (
	ErrRequestIDNotFound   = errors.New("requestID not found in context")
	ErrRequestIDNotString  = errors.New("requestID in context is not a string")
	ErrCollectionNotFound  = errors.New("collection not found in context")
	ErrCollectionNotString = errors.New("collection in context is not a string")
)

// GetRequestIDFromContext retrieves the request ID from the context.
func GetRequestIDFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.RequestIDKey, ErrRequestIDNotFound, ErrRequestIDNotString)
}

// GetCollectionFromContext retrieves the collection name from the context.
func GetCollectionFromContext(ctx context.Context) (string, error) {
	return stringFromContext(ctx, contextkeys.CollectionKey, ErrCollectionNotFound, ErrCollectionNotString)
}

func stringFromContext(ctx context.Context, key interface{}, missing, notString error) (string, error) {
	val := ctx.Value(key)
	if val == nil {
		return "", missing
	}
	s, ok := val.(string)
	if !ok {
		return "", notString
	}
	return s, nil
}

// WithRequestID returns a copy of ctx carrying the request ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextkeys.RequestIDKey, requestID)
}

// WithCollection returns a copy of ctx carrying the collection name.
func WithCollection(ctx context.Context, collection string) context.Context {
	return context.WithValue(ctx, contextkeys.CollectionKey, collection)
}

// WithOperation returns a copy of ctx carrying the gateway operation name.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, contextkeys.OperationKey, operation)
}

// WithComponent returns a copy of ctx carrying the component name.
func WithComponent(ctx context.Context, component string) context.Context {
	return context.WithValue(ctx, contextkeys.ComponentKey, component)
}
