package vectordb

import (
	"context"
	"fmt"

	chromem "github.com/philippgille/chromem-go"
)

// ChromemIndex implements Index on a chromem-go persistent database.
// Each indexed root gets its own database directory and one named
// collection inside it.
type ChromemIndex struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	embedFunc  chromem.EmbeddingFunc
}

// OpenChromem opens (or creates) the chromem database under dir and the
// named collection inside it. The embedding function is only used when
// a document is added without a precomputed vector.
func OpenChromem(dir, collection string, ef chromem.EmbeddingFunc) (*ChromemIndex, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, fmt.Errorf("open chromem db at %s: %w", dir, err)
	}

	col, err := db.GetOrCreateCollection(collection, nil, ef)
	if err != nil {
		return nil, fmt.Errorf("get or create collection %q: %w", collection, err)
	}

	return &ChromemIndex{
		db:         db,
		collection: col,
		name:       collection,
		embedFunc:  ef,
	}, nil
}

func (x *ChromemIndex) Upsert(ctx context.Context, doc Document) error {
	err := x.collection.AddDocument(ctx, chromem.Document{
		ID:        doc.ID,
		Content:   doc.Content,
		Embedding: doc.Embedding,
		Metadata:  metadataToMap(doc.Metadata),
	})
	if err != nil {
		return fmt.Errorf("chromem upsert %q: %w", doc.ID, err)
	}
	return nil
}

func (x *ChromemIndex) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := x.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("chromem delete: %w", err)
	}
	return nil
}

func (x *ChromemIndex) Get(ctx context.Context, id string) (Document, bool, error) {
	doc, err := x.collection.GetByID(ctx, id)
	if err != nil {
		// chromem reports a missing id as an error; there is no other
		// failure mode for an in-memory point lookup.
		return Document{}, false, nil
	}
	return Document{
		ID:        doc.ID,
		Content:   doc.Content,
		Embedding: doc.Embedding,
		Metadata:  mapToMetadata(doc.Metadata),
	}, true, nil
}

func (x *ChromemIndex) Query(ctx context.Context, vector []float32, k int, where map[string]string) ([]Result, error) {
	count := x.collection.Count()
	if count == 0 {
		return nil, nil
	}
	// chromem-go requires nResults <= collection size.
	if k > count {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := x.collection.QueryEmbedding(ctx, vector, k, where, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	out := make([]Result, len(results))
	for i, r := range results {
		out[i] = Result{
			Document: Document{
				ID:        r.ID,
				Content:   r.Content,
				Embedding: r.Embedding,
				Metadata:  mapToMetadata(r.Metadata),
			},
			Similarity: r.Similarity,
		}
	}
	return out, nil
}

func (x *ChromemIndex) Clear(ctx context.Context) error {
	if err := x.db.DeleteCollection(x.name); err != nil {
		return fmt.Errorf("chromem drop collection %q: %w", x.name, err)
	}
	col, err := x.db.GetOrCreateCollection(x.name, nil, x.embedFunc)
	if err != nil {
		return fmt.Errorf("chromem recreate collection %q: %w", x.name, err)
	}
	x.collection = col
	return nil
}

func (x *ChromemIndex) Count() int {
	return x.collection.Count()
}
