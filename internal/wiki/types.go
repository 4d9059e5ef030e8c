package wiki

import "time"

// Document is a wiki document as returned by the source API.
// Text is markdown and may be empty for placeholder documents.
type Document struct {
	ID               string     `json:"id"`
	Title            string     `json:"title"`
	Text             string     `json:"text"`
	URL              string     `json:"url,omitempty"`
	ParentDocumentID string     `json:"parentDocumentId,omitempty"`
	CollectionID     string     `json:"collectionId,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	PublishedAt      *time.Time `json:"publishedAt,omitempty"`
	DeletedAt        *time.Time `json:"deletedAt,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
}

// EnrichedDocument is a Document with ancestry names resolved.
// Names default to the empty string when the document has no parent
// or collection; they are snapshots taken at ingestion time.
type EnrichedDocument struct {
	Document
	ParentDocumentTitle string
	CollectionName      string
}

// Collection is a wiki collection (a named group of documents).
type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Page is one page of a document listing plus the corpus total
// reported by the source.
type Page struct {
	Documents []Document
	Total     int
}

// listRequest is the request body for the documents.list endpoint.
type listRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// idRequest is the request body for the *.info endpoints.
type idRequest struct {
	ID string `json:"id"`
}

// pagination mirrors the source API's pagination envelope.
type pagination struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

// listResponse is the response envelope for documents.list.
type listResponse struct {
	Data       []Document `json:"data"`
	Pagination pagination `json:"pagination"`
}

// documentResponse is the response envelope for documents.info.
type documentResponse struct {
	Data Document `json:"data"`
}

// collectionResponse is the response envelope for collections.info.
type collectionResponse struct {
	Data Collection `json:"data"`
}
