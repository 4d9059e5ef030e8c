package knowledge

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// ChunkRow is the database representation of a stored proposition.
type ChunkRow struct {
	ID        string
	Content   string
	Embedding pgvector.Vector
	Metadata  []byte
	CreatedAt pgtype.Timestamptz
}

// SearchRow is a ChunkRow plus the similarity computed by the database.
type SearchRow struct {
	ChunkRow
	Similarity float32
}

// Querier defines the interface for database operations on chunks.
// Interfaces are defined by the consumer, not the provider, so Store
// depends on this abstraction and tests can swap in a mock.
type Querier interface {
	// UpsertChunks inserts or updates a batch of chunks
	UpsertChunks(ctx context.Context, rows []ChunkRow) error

	// CountBySource counts chunks whose metadata names the given source document
	CountBySource(ctx context.Context, sourceDocumentID string) (int64, error)

	// SearchChunks performs vector similarity search
	SearchChunks(ctx context.Context, embedding pgvector.Vector, limit int) ([]SearchRow, error)
}

// PGQuerier implements Querier over a pgx connection pool.
type PGQuerier struct {
	pool *pgxpool.Pool
}

// NewPGQuerier creates a Querier backed by the given pool.
func NewPGQuerier(pool *pgxpool.Pool) *PGQuerier {
	return &PGQuerier{pool: pool}
}

const upsertChunkSQL = `
INSERT INTO chunks (id, content, embedding, metadata, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET
    content = EXCLUDED.content,
    embedding = EXCLUDED.embedding,
    metadata = EXCLUDED.metadata`

// UpsertChunks writes all rows in a single batch round trip.
func (q *PGQuerier) UpsertChunks(ctx context.Context, rows []ChunkRow) error {
	if len(rows) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(upsertChunkSQL, row.ID, row.Content, row.Embedding, row.Metadata, row.CreatedAt)
	}

	results := q.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range rows {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upserting chunk %q: %w", rows[i].ID, err)
		}
	}

	return nil
}

// CountBySource counts chunks via JSONB containment on the metadata
// column, which the gin index serves. The filter is always built with
// json.Marshal so the @> parameter cannot be malformed by the ID.
func (q *PGQuerier) CountBySource(ctx context.Context, sourceDocumentID string) (int64, error) {
	filter, err := json.Marshal(map[string]string{MetaSourceDocumentID: sourceDocumentID})
	if err != nil {
		return 0, fmt.Errorf("marshaling source filter: %w", err)
	}

	var count int64
	err = q.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chunks WHERE metadata @> $1`,
		filter,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks for source %q: %w", sourceDocumentID, err)
	}

	return count, nil
}

const searchChunksSQL = `
SELECT id, content, embedding, metadata, created_at,
       1 - (embedding <=> $1) AS similarity
FROM chunks
ORDER BY embedding <=> $1
LIMIT $2`

// SearchChunks returns the limit nearest chunks by cosine distance.
func (q *PGQuerier) SearchChunks(ctx context.Context, embedding pgvector.Vector, limit int) ([]SearchRow, error) {
	rows, err := q.pool.Query(ctx, searchChunksSQL, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching chunks: %w", err)
	}
	defer rows.Close()

	var results []SearchRow
	for rows.Next() {
		var row SearchRow
		if err := rows.Scan(&row.ID, &row.Content, &row.Embedding, &row.Metadata,
			&row.CreatedAt, &row.Similarity); err != nil {
			return nil, fmt.Errorf("scanning search row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading search rows: %w", err)
	}

	return results, nil
}
