// Package classifier wraps the external AI classification service. It
// fetches media bytes, encodes them for transport, calls the classification
// endpoint and normalizes the response into a models.Verdict.
//
// Every retrieval, encoding, transport or parse failure is reported as a
// recoverable ErrClassificationFailed; the caller leaves the item pending
// for manual review.
package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"mediamod/internal/models"
)

// ErrClassificationFailed indicates the classifier could not be reached or
// returned an unusable response. It is never escalated to a fatal condition.
var ErrClassificationFailed = errors.New("classification failed")

// maxMediaBytes caps how much media the fetcher will read.
const maxMediaBytes = 20 << 20

// Client calls the external classification endpoint.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// New creates a classifier client for the given endpoint. apiKey may be
// empty if the endpoint is unauthenticated.
func New(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// classifyRequest is the wire request to the classification endpoint.
type classifyRequest struct {
	Media       string `json:"media"` // base64-encoded bytes
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Kind        string `json:"kind"`
}

// classifyResponse is the wire response from the classification endpoint.
type classifyResponse struct {
	Approved        bool     `json:"approved"`
	Confidence      int      `json:"confidence"`
	Reason          string   `json:"reason,omitempty"`
	Transcript      string   `json:"transcript,omitempty"`
	DetectedContent []string `json:"detectedContent,omitempty"`
}

// Classify fetches the item's media, sends it to the classification
// endpoint with the item's context, and returns the normalized verdict.
func (c *Client) Classify(ctx context.Context, item models.MediaItem) (models.Verdict, error) {
	if c.endpoint == "" {
		return models.Verdict{}, fmt.Errorf("%w: no classifier endpoint configured", ErrClassificationFailed)
	}

	media, err := c.fetchMedia(ctx, item.MediaRef)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: fetch media: %v", ErrClassificationFailed, err)
	}

	reqBody, err := json.Marshal(classifyRequest{
		Media:       base64.StdEncoding.EncodeToString(media),
		Title:       item.Title,
		Description: item.Description,
		Kind:        item.Kind,
	})
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: encode request: %v", ErrClassificationFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: build request: %v", ErrClassificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "mediamod-classifier/1.0")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("%w: call classifier: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.Verdict{}, fmt.Errorf("%w: classifier returned status %d", ErrClassificationFailed, resp.StatusCode)
	}

	var parsed classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.Verdict{}, fmt.Errorf("%w: decode response: %v", ErrClassificationFailed, err)
	}

	if parsed.Confidence < 0 || parsed.Confidence > 100 {
		return models.Verdict{}, fmt.Errorf("%w: confidence %d out of range", ErrClassificationFailed, parsed.Confidence)
	}

	rationale := parsed.Reason
	if rationale == "" {
		rationale = parsed.Transcript
	}

	return models.Verdict{
		Approved:   parsed.Approved,
		Confidence: parsed.Confidence,
		Rationale:  rationale,
		Tags:       parsed.DetectedContent,
	}, nil
}

// fetchMedia retrieves the binary content behind a media locator.
func (c *Client) fetchMedia(ctx context.Context, mediaRef string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaRef, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "mediamod-classifier/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("media fetch returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxMediaBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxMediaBytes {
		return nil, errors.New("media exceeds size limit")
	}
	return data, nil
}
