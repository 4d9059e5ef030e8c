package chunker

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sabio-ai/sabio/internal/knowledge"
	"github.com/sabio-ai/sabio/internal/llm"
	"github.com/sabio-ai/sabio/internal/wiki"
)

// Chunker decomposes enriched documents into propositions.
//
// Chunker is safe for concurrent use by multiple goroutines.
type Chunker struct {
	generator llm.Generator
	maxSize   int
	logger    *slog.Logger
}

// New creates a Chunker.
//
// Parameters:
//   - generator: LLM used for proposition extraction
//   - maxSize: Maximum document size in bytes (0 = unlimited)
//   - logger: Logger for skip reasons (nil = use default)
func New(generator llm.Generator, maxSize int, logger *slog.Logger) *Chunker {
	if logger == nil {
		logger = slog.Default()
	}

	return &Chunker{
		generator: generator,
		maxSize:   maxSize,
		logger:    logger,
	}
}

// Chunk extracts propositions from a document. It never returns an
// error: invalid documents, generation failures, and unparseable
// responses all yield an empty slice with the reason logged, so one
// bad document cannot abort a bulk ingestion.
func (c *Chunker) Chunk(ctx context.Context, doc *wiki.EnrichedDocument) []knowledge.Proposition {
	if ok, reason := ValidForChunking(doc.Text, c.maxSize); !ok {
		c.logger.Info("skipping document",
			"document_id", doc.ID, "title", doc.Title, "reason", reason)
		return nil
	}

	response, err := c.generator.Generate(ctx, buildPrompt(doc))
	if err != nil {
		c.logger.Warn("chunk generation failed",
			"document_id", doc.ID, "title", doc.Title, "error", err)
		return nil
	}

	statements := ExtractStringArray(llm.StripReasoning(response))
	if len(statements) == 0 {
		c.logger.Info("no propositions extracted",
			"document_id", doc.ID, "title", doc.Title)
		return nil
	}

	now := time.Now().UTC()
	metadata := buildMetadata(doc)

	props := make([]knowledge.Proposition, 0, len(statements))
	for _, statement := range statements {
		props = append(props, knowledge.Proposition{
			ID:       uuid.New().String(),
			Content:  statement,
			Metadata: metadata,
			CreateAt: now,
		})
	}

	c.logger.Debug("chunked document",
		"document_id", doc.ID, "propositions", len(props))
	return props
}

// buildMetadata snapshots the document's identity and ancestry. Every
// key is always present; missing values are empty strings so filters
// and consumers never deal with absent keys.
func buildMetadata(doc *wiki.EnrichedDocument) map[string]string {
	metadata := map[string]string{
		knowledge.MetaSourceDocumentID:    doc.ID,
		knowledge.MetaSourceDocumentTitle: doc.Title,
		knowledge.MetaParentDocumentID:    doc.ParentDocumentID,
		knowledge.MetaParentDocumentTitle: doc.ParentDocumentTitle,
		knowledge.MetaCollectionID:        doc.CollectionID,
		knowledge.MetaCollectionName:      doc.CollectionName,
		knowledge.MetaURL:                 doc.URL,
		knowledge.MetaTags:                strings.Join(doc.Tags, ","),
		knowledge.MetaCreatedAt:           formatTime(&doc.CreatedAt),
		knowledge.MetaUpdatedAt:           formatTime(&doc.UpdatedAt),
		knowledge.MetaPublishedAt:         formatTime(doc.PublishedAt),
		knowledge.MetaDeletedAt:           formatTime(doc.DeletedAt),
	}
	return metadata
}

// formatTime renders a timestamp as RFC 3339, or "" when absent.
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
