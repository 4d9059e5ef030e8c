// Package wiki provides a client for an Outline-compatible wiki API.
// The client fetches documents page by page and resolves the parent
// and collection names needed to contextualize a document before
// chunking.
package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// requestsPerSecond caps outgoing API calls so bulk ingestion does
	// not trip the wiki's rate limiter.
	requestsPerSecond = 8
	requestBurst      = 4

	requestTimeout = 30 * time.Second
)

// Client is a lightweight client for an Outline-compatible wiki API.
// All endpoints are POST with a JSON body and a bearer token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// New creates a new wiki API client.
//
// Parameters:
//   - baseURL: Base URL of the wiki instance (e.g. "https://wiki.example.com")
//   - token: API token with read access
//
// Returns:
//   - *Client: Initialized client
//   - error: If baseURL or token is empty
func New(baseURL, token string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("wiki base URL is required")
	}
	if token == "" {
		return nil, fmt.Errorf("wiki API token is required")
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}, nil
}

// ListDocuments retrieves one page of the document listing.
//
// Parameters:
//   - ctx: Context for the request
//   - offset: Number of documents to skip
//   - limit: Maximum documents to return
//
// Returns:
//   - *Page: Documents plus the corpus total reported by the API
//   - error: If the request fails
func (c *Client) ListDocuments(ctx context.Context, offset, limit int) (*Page, error) {
	req := listRequest{Offset: offset, Limit: limit}

	var resp listResponse
	if err := c.makeRequest(ctx, "/api/documents.list", req, &resp); err != nil {
		return nil, fmt.Errorf("list documents failed: %w", err)
	}

	return &Page{
		Documents: resp.Data,
		Total:     resp.Pagination.Total,
	}, nil
}

// GetDocument retrieves a single document by ID.
func (c *Client) GetDocument(ctx context.Context, id string) (*Document, error) {
	var resp documentResponse
	if err := c.makeRequest(ctx, "/api/documents.info", idRequest{ID: id}, &resp); err != nil {
		return nil, fmt.Errorf("get document failed: %w", err)
	}

	return &resp.Data, nil
}

// GetCollection retrieves a collection by ID.
func (c *Client) GetCollection(ctx context.Context, id string) (*Collection, error) {
	var resp collectionResponse
	if err := c.makeRequest(ctx, "/api/collections.info", idRequest{ID: id}, &resp); err != nil {
		return nil, fmt.Errorf("get collection failed: %w", err)
	}

	return &resp.Data, nil
}

// Enrich resolves the parent document title and collection name for a
// document. Missing ancestry resolves to the empty string, never an
// error: a document without a parent is the common case, not a fault.
func (c *Client) Enrich(ctx context.Context, doc Document) (*EnrichedDocument, error) {
	enriched := &EnrichedDocument{Document: doc}

	if doc.ParentDocumentID != "" {
		parent, err := c.GetDocument(ctx, doc.ParentDocumentID)
		if err != nil {
			return nil, fmt.Errorf("resolve parent document %s: %w", doc.ParentDocumentID, err)
		}
		enriched.ParentDocumentTitle = parent.Title
	}

	if doc.CollectionID != "" {
		collection, err := c.GetCollection(ctx, doc.CollectionID)
		if err != nil {
			return nil, fmt.Errorf("resolve collection %s: %w", doc.CollectionID, err)
		}
		enriched.CollectionName = collection.Name
	}

	return enriched, nil
}

// makeRequest is a helper method to make HTTP requests to the wiki API.
// Every endpoint is POST with a JSON body; the limiter blocks until a
// request slot is available or the context is canceled.
func (c *Client) makeRequest(ctx context.Context, path string, body, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait failed: %w", err)
	}

	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("wiki API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}
