// Package ingest walks the wiki corpus and feeds it through the
// chunking pipeline into the knowledge store.
//
// Pages are fetched sequentially so the offset cursor stays coherent;
// documents within a page fan out to a bounded worker group. A failing
// document is counted and logged, never allowed to abort the run.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/sabio-ai/sabio/internal/knowledge"
	"github.com/sabio-ai/sabio/internal/wiki"
)

// Source lists and enriches wiki documents.
type Source interface {
	ListDocuments(ctx context.Context, offset, limit int) (*wiki.Page, error)
	Enrich(ctx context.Context, doc wiki.Document) (*wiki.EnrichedDocument, error)
}

// Store persists propositions and answers dedup queries.
type Store interface {
	Add(ctx context.Context, props []knowledge.Proposition) error
	HasSource(ctx context.Context, sourceDocumentID string) (bool, error)
}

// Chunker decomposes an enriched document into propositions.
type Chunker interface {
	Chunk(ctx context.Context, doc *wiki.EnrichedDocument) []knowledge.Proposition
}

// Result summarizes one ingestion run.
type Result struct {
	Processed    int64 // Documents chunked and stored
	Skipped      int64 // Documents already present in the store
	Failed       int64 // Documents that errored (logged, not fatal)
	Propositions int64 // Total propositions written
}

// Controller drives a full ingestion run.
type Controller struct {
	source   Source
	store    Store
	chunker  Chunker
	pageSize int
	workers  int
	logger   *slog.Logger
}

// New creates a Controller.
//
// Parameters:
//   - source: Wiki document source
//   - store: Knowledge store for propositions
//   - chunker: Document chunker
//   - pageSize: Documents fetched per listing call
//   - workers: Concurrent documents per page
//   - logger: Logger (nil = use default)
func New(source Source, store Store, chunker Chunker, pageSize, workers int, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	if pageSize <= 0 {
		pageSize = 25
	}
	if workers <= 0 {
		workers = 1
	}

	return &Controller{
		source:   source,
		store:    store,
		chunker:  chunker,
		pageSize: pageSize,
		workers:  workers,
		logger:   logger,
	}
}

// Run ingests the whole corpus. The first page establishes the total;
// subsequent pages are fetched until every listed document has been
// seen. Listing failures abort the run (the cursor would be unsound),
// per-document failures do not.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	var processed, skipped, failed, propositions atomic.Int64

	offset := 0
	total := -1

	for {
		page, err := c.source.ListDocuments(ctx, offset, c.pageSize)
		if err != nil {
			return nil, fmt.Errorf("listing documents at offset %d: %w", offset, err)
		}

		if total < 0 {
			total = page.Total
			c.logger.Info("starting ingestion",
				"total_documents", total, "page_size", c.pageSize, "workers", c.workers)
		}

		if len(page.Documents) == 0 {
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.workers)

		for _, doc := range page.Documents {
			g.Go(func() error {
				count, err := c.processDocument(gctx, doc)
				switch {
				case err != nil:
					failed.Add(1)
					c.logger.Warn("document ingestion failed",
						"document_id", doc.ID, "title", doc.Title, "error", err)
				case count < 0:
					skipped.Add(1)
				default:
					processed.Add(1)
					propositions.Add(int64(count))
				}
				// Per-document failures are isolated; only context
				// cancellation stops the group.
				return gctx.Err()
			})
		}

		if err := g.Wait(); err != nil {
			return nil, fmt.Errorf("ingestion canceled: %w", err)
		}

		offset += len(page.Documents)
		if offset >= total {
			break
		}
	}

	result.Processed = processed.Load()
	result.Skipped = skipped.Load()
	result.Failed = failed.Load()
	result.Propositions = propositions.Load()

	c.logger.Info("ingestion finished",
		"processed", result.Processed,
		"skipped", result.Skipped,
		"failed", result.Failed,
		"propositions", result.Propositions)

	return result, nil
}

// processDocument handles one document end to end. It returns the
// number of propositions stored, or -1 when the document was skipped
// as already ingested. The dedup check runs before enrichment so
// already-ingested documents cost no extra API calls.
func (c *Controller) processDocument(ctx context.Context, doc wiki.Document) (int, error) {
	exists, err := c.store.HasSource(ctx, doc.ID)
	if err != nil {
		return 0, fmt.Errorf("dedup check: %w", err)
	}
	if exists {
		c.logger.Debug("document already ingested", "document_id", doc.ID)
		return -1, nil
	}

	enriched, err := c.source.Enrich(ctx, doc)
	if err != nil {
		return 0, fmt.Errorf("enriching: %w", err)
	}

	props := c.chunker.Chunk(ctx, enriched)
	if len(props) == 0 {
		// Nothing extractable; already logged by the chunker.
		return 0, nil
	}

	if err := c.store.Add(ctx, props); err != nil {
		return 0, fmt.Errorf("storing propositions: %w", err)
	}

	return len(props), nil
}
