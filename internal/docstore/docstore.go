// Package docstore defines the document database collaborator: collections of
// JSON-shaped documents addressed by collection name and document id.
package docstore

import "context"

// Document is the schemaless record shape the backing service returns.
// Consumers validate documents into typed records at the read boundary.
type Document map[string]any

// Store is the document database contract.
// Error Contract: Get and Update return an error wrapping sentinel.ErrNotFound
// when the document does not exist.
type Store interface {
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, doc Document) error
	Update(ctx context.Context, collection, id string, partial Document) error
	List(ctx context.Context, collection string) (map[string]Document, error)
}
