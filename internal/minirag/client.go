// Package minirag is the HTTP client for the Mini-RAG backend. The backend
// owns chunking, embeddings and retrieval; this client only speaks its
// three-endpoint data contract.
package minirag

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Karim-Bennia/minirag-console/internal/domain"
)

// Client calls the Mini-RAG data API
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a new Mini-RAG client
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type uploadResponse struct {
	FileID string `json:"file_id"`
}

type processRequest struct {
	FileID      string `json:"file_id"`
	ChunkSize   int    `json:"chunk_size"`
	OverlapSize int    `json:"overlap_size"`
}

type queryRequest struct {
	Question  string `json:"question"`
	FileID    string `json:"file_id"`
	ProjectID string `json:"project_id"`
}

// QueryResult is the backend's answer to a query
type QueryResult struct {
	Answer    string          `json:"answer"`
	Reasoning *string         `json:"reasoning"`
	Sources   []domain.Source `json:"sources"`
}

// Upload sends raw file bytes scoped to a project and returns the
// backend-issued file id.
func (c *Client) Upload(ctx context.Context, projectID, filename string, content io.Reader) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("writing form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("closing multipart body: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/data/upload/%s", c.baseURL, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.FileID == "" {
		return "", fmt.Errorf("backend returned no file id")
	}

	return result.FileID, nil
}

// Process asks the backend to chunk and index an uploaded file
func (c *Client) Process(ctx context.Context, projectID, fileID string, chunkSize, overlapSize int) error {
	reqBody := processRequest{
		FileID:      fileID,
		ChunkSize:   chunkSize,
		OverlapSize: overlapSize,
	}

	resp, err := c.postJSON(ctx, "process", projectID, reqBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	// The response body carries processing stats the console does not use
	return nil
}

// Query asks a question scoped to (project, file)
func (c *Client) Query(ctx context.Context, projectID, fileID, question string) (*QueryResult, error) {
	reqBody := queryRequest{
		Question:  question,
		FileID:    fileID,
		ProjectID: projectID,
	}

	resp, err := c.postJSON(ctx, "query", projectID, reqBody)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var result QueryResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint, projectID string, payload any) (*http.Response, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/data/%s/%s", c.baseURL, endpoint, projectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling backend: %w", err)
	}
	return resp, nil
}
