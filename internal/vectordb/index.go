package vectordb

import "context"

// Index is one named collection of documents supporting upsert, delete,
// point lookup, and nearest-neighbor queries. Implementations scope an
// Index to a single collection; writing an existing id replaces it.
type Index interface {
	// Upsert adds or replaces a document by id.
	Upsert(ctx context.Context, doc Document) error

	// Delete removes the given ids. Missing ids are not an error.
	Delete(ctx context.Context, ids ...string) error

	// Get retrieves a document by id. The second return value is false
	// if the id is not present.
	Get(ctx context.Context, id string) (Document, bool, error)

	// Query returns up to k documents nearest to the given vector,
	// best match first, optionally filtered by exact metadata values.
	// An empty collection yields an empty result, not an error.
	Query(ctx context.Context, vector []float32, k int, where map[string]string) ([]Result, error)

	// Clear removes every document from the collection.
	Clear(ctx context.Context) error

	// Count returns the number of documents in the collection.
	Count() int
}

// Opener creates or opens the Index for a named collection persisted
// under dir. Injected into the engine so tests can substitute doubles.
type Opener func(dir, collection string) (Index, error)
