// Package knowledge manages proposition chunks with vector search
// capabilities using PostgreSQL + pgvector.
//
// The Store embeds chunk content through a Genkit embedder and persists
// the vectors alongside a JSONB metadata snapshot. Every chunk carries
// its source document ID in metadata, which is what makes re-ingestion
// idempotent: the ingestion controller checks for existing chunks from
// a source before re-chunking it.
package knowledge
