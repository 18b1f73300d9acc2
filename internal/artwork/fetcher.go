package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source fetches the art for one card. The compositor depends on this
// interface so tests can substitute canned images for the HTTP host.
type Source interface {
	Fetch(ctx context.Context, cardID string) (image.Image, error)
}

// DefaultBaseURL is the official card-list image host.
const DefaultBaseURL = "https://www.onepiece-cardgame.com/images/cardlist/card"

// Client fetches card art over HTTP by card ID and caches decoded images in
// memory. Fetches are idempotent GETs; failures are returned, not retried —
// the caller decides whether missing art matters.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger

	mu    sync.Mutex
	cache map[string]image.Image
}

func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
		cache:   map[string]image.Image{},
	}
}

// URL returns the art location for a card ID.
func (c *Client) URL(cardID string) string {
	return c.baseURL + "/" + cardID + ".png"
}

// Fetch downloads and decodes the card's image, serving repeats from cache.
func (c *Client) Fetch(ctx context.Context, cardID string) (image.Image, error) {
	c.mu.Lock()
	if img, ok := c.cache[cardID]; ok {
		c.mu.Unlock()
		return img, nil
	}
	c.mu.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(cardID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching art for %s: status %d", cardID, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decoding art for %s: %w", cardID, err)
	}

	c.mu.Lock()
	c.cache[cardID] = img
	c.mu.Unlock()
	return img, nil
}

// FetchAll retrieves the distinct IDs concurrently with at most limit
// requests in flight and returns whatever succeeded. Failed fetches are
// logged and omitted; the batch itself never fails.
func FetchAll(ctx context.Context, src Source, ids []string, limit int, log *zap.Logger) map[string]image.Image {
	if log == nil {
		log = zap.NewNop()
	}
	if limit <= 0 {
		limit = 1
	}

	seen := map[string]struct{}{}
	var distinct []string
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	var mu sync.Mutex
	out := make(map[string]image.Image, len(distinct))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, id := range distinct {
		id := id
		g.Go(func() error {
			img, err := src.Fetch(ctx, id)
			if err != nil {
				log.Warn("card art fetch failed", zap.String("card_id", id), zap.Error(err))
				return nil
			}
			mu.Lock()
			out[id] = img
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}
