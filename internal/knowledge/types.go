package knowledge

import "time"

// Metadata keys attached to every stored chunk. Values are always
// strings; absent ancestry is recorded as the empty string, never
// omitted, so filters behave uniformly.
const (
	MetaSourceDocumentID    = "source_document_id"
	MetaSourceDocumentTitle = "source_document_title"
	MetaParentDocumentID    = "parent_document_id"
	MetaParentDocumentTitle = "parent_document_title"
	MetaCollectionID        = "collection_id"
	MetaCollectionName      = "collection_name"
	MetaURL                 = "url"
	MetaTags                = "tags"
	MetaCreatedAt           = "created_at"
	MetaUpdatedAt           = "updated_at"
	MetaPublishedAt         = "published_at"
	MetaDeletedAt           = "deleted_at"
)

// Proposition is a single self-contained statement extracted from a
// source document, ready for embedding and storage.
type Proposition struct {
	ID       string            // Unique identifier
	Content  string            // Proposition text (Spanish)
	Metadata map[string]string // Source document snapshot
	CreateAt time.Time         // Creation timestamp
}

// Result represents a single search result with similarity score.
type Result struct {
	Proposition Proposition
	Similarity  float32 // Cosine similarity score (0-1)
}

// SearchOption configures search behavior using the functional options pattern.
type SearchOption func(*searchConfig)

// searchConfig holds internal search configuration.
type searchConfig struct {
	topK    int
	timeout time.Duration
}

// WithTopK sets the maximum number of results to return.
// Default is 4 if not specified.
func WithTopK(k int) SearchOption {
	return func(c *searchConfig) {
		c.topK = k
	}
}

// WithTimeout overrides the per-search deadline applied on top of the
// caller's context. Default is 10 seconds.
func WithTimeout(d time.Duration) SearchOption {
	return func(c *searchConfig) {
		c.timeout = d
	}
}

// buildSearchConfig applies search options and returns the final configuration.
func buildSearchConfig(opts []SearchOption) *searchConfig {
	cfg := &searchConfig{
		topK:    4,
		timeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
