package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

// Store manages proposition chunks with vector search capabilities.
// It handles embedding generation and vector similarity search using
// PostgreSQL + pgvector.
//
// Store is safe for concurrent use by multiple goroutines.
type Store struct {
	queries  Querier
	embedder ai.Embedder
	logger   *slog.Logger
}

// New creates a new Store instance.
//
// Parameters:
//   - querier: Database querier implementing Querier interface
//   - embedder: AI embedder for generating vector embeddings
//   - logger: Logger for debugging (nil = use default)
//
// Example (production):
//
//	store := knowledge.New(knowledge.NewPGQuerier(pool), embedder, slog.Default())
//
// Example (testing with mock):
//
//	store := knowledge.New(mockQuerier, mockEmbedder, slog.Default())
func New(querier Querier, embedder ai.Embedder, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		queries:  querier,
		embedder: embedder,
		logger:   logger,
	}
}

// Add embeds and persists a batch of propositions. All contents go to
// the embedder in a single request, then one batched upsert writes the
// rows. Upsert (ON CONFLICT DO UPDATE) makes retries safe.
func (s *Store) Add(ctx context.Context, props []Proposition) error {
	if len(props) == 0 {
		return nil
	}

	input := make([]*ai.Document, 0, len(props))
	for _, p := range props {
		input = append(input, &ai.Document{
			Content: []*ai.Part{ai.NewTextPart(p.Content)},
		})
	}

	embeddingResp, err := s.embedder.Embed(ctx, &ai.EmbedRequest{Input: input})
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}
	if len(embeddingResp.Embeddings) != len(props) {
		return fmt.Errorf("embedder returned %d embeddings for %d propositions",
			len(embeddingResp.Embeddings), len(props))
	}

	rows := make([]ChunkRow, 0, len(props))
	for i, p := range props {
		vec := embeddingResp.Embeddings[i].Embedding
		if len(vec) == 0 {
			return fmt.Errorf("empty embedding returned for proposition %q", p.ID)
		}

		metadataJSON, err := json.Marshal(p.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata for %q: %w", p.ID, err)
		}

		rows = append(rows, ChunkRow{
			ID:        p.ID,
			Content:   p.Content,
			Embedding: pgvector.NewVector(vec),
			Metadata:  metadataJSON,
			CreatedAt: pgtype.Timestamptz{Time: p.CreateAt, Valid: !p.CreateAt.IsZero()},
		})
	}

	if err := s.queries.UpsertChunks(ctx, rows); err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}

	s.logger.Debug("added propositions", "count", len(props))
	return nil
}

// HasSource reports whether any chunk from the given source document is
// already stored. The ingestion controller uses this to skip documents
// that were chunked on a previous run.
func (s *Store) HasSource(ctx context.Context, sourceDocumentID string) (bool, error) {
	count, err := s.queries.CountBySource(ctx, sourceDocumentID)
	if err != nil {
		return false, fmt.Errorf("checking source %q: %w", sourceDocumentID, err)
	}
	return count > 0, nil
}

// Search performs semantic search on the stored chunks using functional
// options. It returns the most similar propositions to the query,
// ordered by similarity score. A per-search timeout prevents vector
// queries from blocking indefinitely.
//
// Example usage:
//
//	results, err := store.Search(ctx, "¿cómo desplegamos?", knowledge.WithTopK(4))
func (s *Store) Search(ctx context.Context, query string, opts ...SearchOption) ([]Result, error) {
	cfg := buildSearchConfig(opts)

	queryCtx, cancel := context.WithTimeout(ctx, cfg.timeout)
	defer cancel()

	embeddingResp, err := s.embedder.Embed(queryCtx, &ai.EmbedRequest{
		Input: []*ai.Document{
			{
				Content: []*ai.Part{ai.NewTextPart(query)},
			},
		},
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("embedding generation timeout: %w", err)
		}
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	if len(embeddingResp.Embeddings) == 0 || len(embeddingResp.Embeddings[0].Embedding) == 0 {
		return nil, fmt.Errorf("empty embedding returned for query")
	}

	queryEmbedding := pgvector.NewVector(embeddingResp.Embeddings[0].Embedding)

	rows, err := s.queries.SearchChunks(queryCtx, queryEmbedding, cfg.topK)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("search query timeout: %w", err)
		}
		return nil, fmt.Errorf("search failed: %w", err)
	}

	return s.rowsToResults(rows), nil
}

// rowsToResults converts database search rows to business model Results.
func (s *Store) rowsToResults(rows []SearchRow) []Result {
	results := make([]Result, 0, len(rows))

	for _, row := range rows {
		var metadata map[string]string
		if err := json.Unmarshal(row.Metadata, &metadata); err != nil {
			s.logger.Warn("failed to parse metadata", "chunk_id", row.ID, "error", err)
			metadata = make(map[string]string)
		}

		var createAt time.Time
		if row.CreatedAt.Valid {
			createAt = row.CreatedAt.Time
		}

		results = append(results, Result{
			Proposition: Proposition{
				ID:       row.ID,
				Content:  row.Content,
				Metadata: metadata,
				CreateAt: createAt,
			},
			Similarity: row.Similarity,
		})
	}

	return results
}
