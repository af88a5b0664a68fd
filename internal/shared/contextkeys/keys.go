package contextkeys

// contextKey is an unexported type to prevent collisions with context keys defined in
// other packages.
type contextKey string

// String makes contextKey satisfy the Stringer interface to assist with debugging.
func (c contextKey) String() string {
	return "coffee-store context key " + string(c)
}

// RequestIDKey is the key for the per-request identifier in context.Context
const RequestIDKey = contextKey("requestID")

// CollectionKey is the key for the collection a request operates on
const CollectionKey = contextKey("collection")

// OperationKey is the key for the gateway operation name (find, insert, update, delete)
const OperationKey = contextKey("operation")

// ComponentKey is the key for the component emitting a log line
const ComponentKey = contextKey("component")
