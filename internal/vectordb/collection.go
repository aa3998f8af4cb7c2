// Package vectordb builds, persists and queries the vector index over
// document chunks.
package vectordb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/docqa/internal/embeddings"
)

const (
	collectionName = "knowledge_base"

	// DefaultFetchK is the size of the similarity candidate pool that MMR
	// reranks.
	DefaultFetchK = 20
	// DefaultLambda weighs relevance against diversity in MMR.
	DefaultLambda = 0.5
)

// Collection is an in-memory vector index plus the records it was built
// from. It is safe for concurrent queries.
type Collection struct {
	db         *chromem.DB
	col        *chromem.Collection
	embedder   embeddings.Embedder
	records    map[string]Record
	order      []string
	model      string
	dimensions int
}

func newCollection(embedder embeddings.Embedder, model string, dims int) (*Collection, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ToChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return &Collection{
		db:         db,
		col:        col,
		embedder:   embedder,
		records:    make(map[string]Record),
		model:      model,
		dimensions: dims,
	}, nil
}

// add stores records with their precomputed vectors.
func (c *Collection) add(ctx context.Context, records []Record, vectors [][]float32) error {
	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		docs[i] = chromem.Document{
			ID:        r.ID,
			Content:   r.Text,
			Embedding: vectors[i],
			Metadata: map[string]string{
				"source": r.Source,
				"seq":    strconv.Itoa(r.Seq),
			},
		}
	}
	if err := c.col.AddDocuments(ctx, docs, 1); err != nil {
		return err
	}
	c.index(records)
	return nil
}

func (c *Collection) index(records []Record) {
	for _, r := range records {
		c.records[r.ID] = r
		c.order = append(c.order, r.ID)
	}
}

// Count returns the number of records.
func (c *Collection) Count() int {
	return c.col.Count()
}

// EmbeddingModel returns the identifier of the model the vectors came from.
func (c *Collection) EmbeddingModel() string {
	return c.model
}

// Dimensions returns the vector dimensionality.
func (c *Collection) Dimensions() int {
	return c.dimensions
}

// Records returns all records in build order.
func (c *Collection) Records() []Record {
	out := make([]Record, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id])
	}
	return out
}

// Nearest returns up to k records relevant to query, best first. Candidates
// are the DefaultFetchK most similar records, ties going to the earlier
// chunk, reranked with maximal marginal relevance so near-duplicate chunks
// do not crowd out other context.
func (c *Collection) Nearest(ctx context.Context, query string, k int) ([]Record, error) {
	count := c.Count()
	if k <= 0 || count == 0 {
		return []Record{}, nil
	}

	qv, err := embeddings.EmbedOne(ctx, c.embedder, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return c.nearestVector(ctx, qv, k)
}

func (c *Collection) nearestVector(ctx context.Context, qv []float32, k int) ([]Record, error) {
	count := c.Count()
	if len(qv) != c.dimensions && c.dimensions > 0 {
		return nil, fmt.Errorf("query vector has %d dimensions, index has %d", len(qv), c.dimensions)
	}

	// chromem picks arbitrarily among tied candidates at a cutoff, so rank
	// every record and cut the pool only after ties are broken by Seq.
	results, err := c.col.QueryEmbedding(ctx, qv, count, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Similarity != results[j].Similarity {
			return results[i].Similarity > results[j].Similarity
		}
		return c.records[results[i].ID].Seq < c.records[results[j].ID].Seq
	})
	results = results[:min(max(DefaultFetchK, k), len(results))]

	vectors := make([][]float32, len(results))
	for i, r := range results {
		vectors[i] = r.Embedding
	}
	picked := maximalMarginalRelevance(qv, vectors, DefaultLambda, k)

	out := make([]Record, 0, len(picked))
	for _, idx := range picked {
		res := results[idx]
		rec, ok := c.records[res.ID]
		if !ok {
			return nil, errors.New("index and record store are out of sync: missing " + res.ID)
		}
		rec.Similarity = res.Similarity
		out = append(out, rec)
	}
	return out, nil
}
