package store

import "context"

// Record is a stored row in a collection: an opaque identifier assigned
// by the store plus a schemaless field map.
type Record struct {
	ID     string         `json:"id"`
	Fields map[string]any `json:"fields"`
}

// RecordStore is the outbound contract to the record-storage backend.
// The backend's listing API has no server-side filtering; FetchAll
// returns every record in the collection and callers scan client-side.
// Consistency is eventual, not linearizable.
type RecordStore interface {
	FetchAll(ctx context.Context, collection string) ([]Record, error)
	Insert(ctx context.Context, collection string, fields map[string]any) (Record, error)
	Update(ctx context.Context, collection string, id string, fields map[string]any) error
	Ping(ctx context.Context) error
}
