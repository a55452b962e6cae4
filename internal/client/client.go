// Package client talks to the planner HTTP API on behalf of the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	infracontext "github.com/barjames/funeral-planner/infrastructure/context"
	infraerrors "github.com/barjames/funeral-planner/infrastructure/errors"
	infrahttp "github.com/barjames/funeral-planner/infrastructure/http"
	"github.com/barjames/funeral-planner/internal/document"
	"github.com/barjames/funeral-planner/internal/importer"
	"github.com/barjames/funeral-planner/internal/models"
)

// DefaultBaseURL is where a locally started planner server listens.
const DefaultBaseURL = "http://localhost:3000"

// DefaultMaxDocumentBytes bounds a downloaded plan.
const DefaultMaxDocumentBytes = 32 << 20

// ErrDocumentTooLarge is returned when a generated plan exceeds the client's limit.
var ErrDocumentTooLarge = errors.New("document exceeds size limit")

// Client is an HTTP client for the planner API.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	maxDocumentBytes int64
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the server address, e.g. http://localhost:3000.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithMaxDocumentBytes caps the size of a downloaded plan. Non-positive values are ignored.
func WithMaxDocumentBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxDocumentBytes = n
		}
	}
}

// NewClient creates a planner API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:          DefaultBaseURL,
		httpClient:       infrahttp.NewClient(nil),
		maxDocumentBytes: DefaultMaxDocumentBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document is a downloaded plan.
type Document struct {
	Content  []byte
	Filename string
}

func (c *Client) contentURL(category string, parts ...string) (string, error) {
	u, err := url.JoinPath(c.baseURL, append([]string{"api", "content", category}, parts...)...)
	if err != nil {
		return "", fmt.Errorf("failed to construct URL: %w", err)
	}
	return u, nil
}

// List fetches every item in category in creation order.
func (c *Client) List(ctx context.Context, category string) ([]models.ContentItem, error) {
	endpoint, err := c.contentURL(category)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	items := []models.ContentItem{}
	if doErr := c.doRequest(req, &items); doErr != nil {
		return nil, fmt.Errorf("failed to list %s: %w", category, doErr)
	}
	return items, nil
}

// Find returns the item with id in category.
func (c *Client) Find(ctx context.Context, category, id string) (*models.ContentItem, error) {
	items, err := c.List(ctx, category)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%s item with ID %s not found", category, id)
}

// Create stores a new item.
func (c *Client) Create(ctx context.Context, category string, body models.CreateRequest) (*models.ContentItem, error) {
	endpoint, err := c.contentURL(category)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created models.ContentItem
	if doErr := c.doRequest(req, &created); doErr != nil {
		return nil, fmt.Errorf("failed to create %s item: %w", category, doErr)
	}
	return &created, nil
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, category, id string) (*models.DeleteResponse, error) {
	endpoint, err := c.contentURL(category, id)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var deleted models.DeleteResponse
	if doErr := c.doRequest(req, &deleted); doErr != nil {
		return nil, fmt.Errorf("failed to delete %s item: %w", category, doErr)
	}
	return &deleted, nil
}

// Import uploads a workbook. Rejected rows are reported in the result; a
// workbook with no importable row also returns an error.
func (c *Client) Import(ctx context.Context, category, filename string, workbook io.Reader) (*importer.Result, error) {
	endpoint, err := c.contentURL(category, "import")
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err = io.Copy(part, workbook); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if err = form.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result importer.Result
	if resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusBadRequest {
		if json.Unmarshal(data, &result) == nil && (result.Imported > 0 || len(result.Errors) > 0) {
			if result.Imported == 0 {
				return &result, errors.New("no rows were imported")
			}
			return &result, nil
		}
	}

	resp.Body = io.NopCloser(bytes.NewReader(data))
	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return nil, fmt.Errorf("failed to import %s: %w", filename, httpErr)
	}
	return &result, nil
}

// GeneratePDF posts the selection and returns the rendered plan. The
// filename comes from Content-Disposition, defaulting to funeral_plan.pdf.
func (c *Client) GeneratePDF(ctx context.Context, wishlist models.Wishlist) (*Document, error) {
	endpoint, err := url.JoinPath(c.baseURL, "api", "pdf", "generate")
	if err != nil {
		return nil, fmt.Errorf("failed to construct URL: %w", err)
	}

	payload, err := json.Marshal(models.GenerateRequest{Wishlist: wishlist})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal wishlist: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", httpErr)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, c.maxDocumentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if int64(len(content)) > c.maxDocumentBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrDocumentTooLarge, c.maxDocumentBytes)
	}

	return &Document{
		Content:  content,
		Filename: AttachmentFilename(resp.Header.Get("Content-Disposition")),
	}, nil
}

// AttachmentFilename extracts the filename parameter of a Content-Disposition
// header, falling back to document.DefaultFilename.
func AttachmentFilename(header string) string {
	if header == "" {
		return document.DefaultFilename
	}
	_, params, err := mime.ParseMediaType(header)
	if err != nil {
		return document.DefaultFilename
	}
	// Keep only the base name; the caller chooses the directory.
	name := strings.TrimSpace(params["filename"])
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if name == "" || name == "." || name == ".." {
		return document.DefaultFilename
	}
	return name
}

// doRequest sends req with the default request timeout and decodes a
// successful JSON body into result.
func (c *Client) doRequest(req *http.Request, result any) error {
	ctx, cancel := infracontext.WithRequestTimeout(req.Context())
	defer cancel()

	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return fmt.Errorf("failed to connect to planner API at %s: %w. "+
				"Ensure the server is running and accessible", c.baseURL, err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if httpErr := infraerrors.ParseHTTPError(resp); httpErr != nil {
		return httpErr
	}

	if result == nil {
		return nil
	}
	if decodeErr := json.NewDecoder(resp.Body).Decode(result); decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	return nil
}
