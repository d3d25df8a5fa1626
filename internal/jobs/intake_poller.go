package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"mediamod/internal/models"
	"mediamod/internal/moderation"
)

// IntakeSource exposes media items submitted out-of-band (e.g. by the
// platform's upload service) that have not yet entered the moderation queue.
type IntakeSource interface {
	FetchPending(ctx context.Context) ([]models.MediaItem, error)
}

// IntakePoller periodically unions newly-visible pending items from an
// intake source into the moderation queue. The merge is idempotent: items
// are keyed by id and existing entries are never touched.
type IntakePoller struct {
	svc      *moderation.Service
	source   IntakeSource
	interval time.Duration
}

// NewIntakePoller creates a poller over the given source.
func NewIntakePoller(svc *moderation.Service, source IntakeSource, interval time.Duration) *IntakePoller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &IntakePoller{svc: svc, source: source, interval: interval}
}

// Start begins the background polling loop.
func (p *IntakePoller) Start(ctx context.Context) {
	log.Printf("Intake poller started (interval: %v)", p.interval)

	// Run immediately on start
	p.merge(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Intake poller stopped")
			return
		case <-ticker.C:
			p.merge(ctx)
		}
	}
}

// merge runs one fetch-and-union pass. Source errors are logged and retried
// on the next tick.
func (p *IntakePoller) merge(ctx context.Context) {
	items, err := p.source.FetchPending(ctx)
	if err != nil {
		log.Printf("Intake poller: failed to fetch pending items: %v", err)
		return
	}

	added := 0
	for _, item := range items {
		if _, err := p.svc.Submit(item); err != nil {
			if errors.Is(err, moderation.ErrDuplicateID) {
				continue
			}
			log.Printf("Intake poller: skipping item %s: %v", item.ID, err)
			continue
		}
		added++
	}

	if added > 0 {
		log.Printf("Intake poller: merged %d new items", added)
	}
}

// HTTPIntakeSource fetches pending items as JSON from an HTTP endpoint.
// Expected payload: {"items": [...]}.
type HTTPIntakeSource struct {
	url    string
	client *http.Client
}

// NewHTTPIntakeSource creates an HTTP intake source.
func NewHTTPIntakeSource(url string) *HTTPIntakeSource {
	return &HTTPIntakeSource{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchPending retrieves the currently visible out-of-band submissions.
func (s *HTTPIntakeSource) FetchPending(ctx context.Context) ([]models.MediaItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build intake request: %w", err)
	}
	req.Header.Set("User-Agent", "mediamod-intake/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch intake queue: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("intake source returned status %d", resp.StatusCode)
	}

	var payload struct {
		Items []models.MediaItem `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode intake payload: %w", err)
	}
	return payload.Items, nil
}
