package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"shopdash/internal/logger"
	"shopdash/internal/models"
)

// EventParams selects one page of webhook events.
type EventParams struct {
	Limit  int
	Cursor string
	Topic  string
}

// maxCachedPages bounds the ETag cache. One entry per topic and page size.
const maxCachedPages = 16

// EventsClient reads the REST events endpoint. It remembers the ETag and
// body of first-page URLs, the ones polling refetches, so unchanged pages
// come back as 304 and are answered from the cache.
type EventsClient struct {
	endpoint   string
	shop       string
	httpClient *http.Client
	logger     *logger.Logger

	mu    sync.Mutex
	cache map[string]cachedPage
	order []string
}

type cachedPage struct {
	etag string
	page models.Page[models.WebhookEvent]
}

func NewEventsClient(endpoint, shop string, httpClient *http.Client, logger *logger.Logger) *EventsClient {
	return &EventsClient{
		endpoint:   endpoint,
		shop:       shop,
		httpClient: httpClient,
		logger:     logger,
		cache:      make(map[string]cachedPage),
	}
}

// ListEvents fetches one page of webhook events, newest first.
func (c *EventsClient) ListEvents(ctx context.Context, params EventParams) (models.Page[models.WebhookEvent], error) {
	var empty models.Page[models.WebhookEvent]
	if c.shop == "" {
		return empty, ErrMissingShop
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return empty, fmt.Errorf("invalid events endpoint: %w", err)
	}
	q := u.Query()
	q.Set("shop", c.shop)
	if params.Limit > 0 {
		q.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Cursor != "" {
		q.Set("cursor", params.Cursor)
	}
	if params.Topic != "" {
		q.Set("topic", params.Topic)
	}
	u.RawQuery = q.Encode()
	target := u.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return empty, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	cached, hasCached := c.cached(target)
	if hasCached {
		req.Header.Set("If-None-Match", cached.etag)
	}

	c.logger.Debug("GET %s", target)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return empty, fmt.Errorf("failed to list events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		page := models.Page[models.WebhookEvent]{NotModified: true}
		if hasCached {
			page = cached.page
			page.Items = append([]models.WebhookEvent(nil), cached.page.Items...)
			page.NotModified = true
		}
		return page, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return empty, fmt.Errorf("failed to read events response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return empty, fmt.Errorf("failed to list events: %w", &StatusError{Code: resp.StatusCode, Body: string(body)})
	}

	env, err := decodeEnvelope[[]models.WebhookEvent](json.RawMessage(body))
	if err != nil {
		return empty, fmt.Errorf("failed to list events: %w", err)
	}

	page := pageOf(env)
	if params.Cursor == "" {
		c.store(target, resp.Header.Get("ETag"), page)
	}
	return page, nil
}

func (c *EventsClient) cached(target string) (cachedPage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.cache[target]
	return entry, ok
}

func (c *EventsClient) store(target, etag string, page models.Page[models.WebhookEvent]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if etag == "" {
		c.forget(target)
		return
	}
	if _, ok := c.cache[target]; !ok {
		if len(c.order) >= maxCachedPages {
			delete(c.cache, c.order[0])
			c.order = c.order[1:]
		}
		c.order = append(c.order, target)
	}
	page.Items = append([]models.WebhookEvent(nil), page.Items...)
	c.cache[target] = cachedPage{etag: etag, page: page}
}

// forget must be called with mu held.
func (c *EventsClient) forget(target string) {
	if _, ok := c.cache[target]; !ok {
		return
	}
	delete(c.cache, target)
	for i, t := range c.order {
		if t == target {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *EventsClient) cachedPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.cache)
}
