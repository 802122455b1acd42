package common

const (
	// RequestIDHeaderName carries the per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"

	// AuthorizationHeaderName carries the admin bearer token.
	AuthorizationHeaderName = "Authorization"

	// MaxTokenLength mirrors the width of the tokens.token column.
	MaxTokenLength = 100

	// ExpiresDateLayout is the accepted layout of the "expires" field
	// on the admin route.
	ExpiresDateLayout = "2006-01-02"
)

// Storage backends selectable in configuration.
const (
	StorageAuto     = ""
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)
