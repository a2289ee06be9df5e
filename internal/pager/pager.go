// Package pager keeps the state of one cursor-paginated backend collection.
//
// A Pager holds exactly one page at a time. Moving forward pushes the current
// cursor onto a history stack and moving back pops it, so the previous page
// is always refetched rather than served from memory. Requests are not
// sequenced: when navigation overlaps an in-flight fetch the last response to
// arrive wins.
package pager

import (
	"context"
	"errors"
	"sync"

	"shopdash/internal/models"
)

var ErrInvalidPageSize = errors.New("page size must be positive")

// Request is what a FetchFunc is asked for.
type Request struct {
	First int
	After string
}

// FetchFunc loads one page.
type FetchFunc[T any] func(ctx context.Context, req Request) (models.Page[T], error)

// State is a copy of the pager's current view.
type State[T any] struct {
	Items       []T    `json:"items"`
	TotalCount  int    `json:"total_count"`
	HasNextPage bool   `json:"has_next_page"`
	HasPrevPage bool   `json:"has_prev_page"`
	EndCursor   string `json:"end_cursor"`
	Cursor      string `json:"cursor"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	Loading     bool   `json:"loading"`
	Loaded      bool   `json:"loaded"`
	Error       string `json:"error,omitempty"`
}

type Pager[T any] struct {
	fetch     FetchFunc[T]
	formatErr func(error) string

	mu       sync.Mutex
	pageSize int
	cursor   string
	history  []string
	items    []T
	total    int
	pageInfo models.PageInfo
	loading  bool
	loaded   bool
	errMsg   string

	// shown is the request that produced items.
	shown Request
}

type Option[T any] func(*Pager[T])

// WithErrorFormatter sets how fetch failures are rendered into State.Error.
func WithErrorFormatter[T any](format func(error) string) Option[T] {
	return func(p *Pager[T]) {
		p.formatErr = format
	}
}

func New[T any](pageSize int, fetch FetchFunc[T], opts ...Option[T]) *Pager[T] {
	if pageSize <= 0 {
		pageSize = 20
	}
	p := &Pager[T]{
		fetch:     fetch,
		formatErr: func(err error) string { return err.Error() },
		pageSize:  pageSize,
		items:     []T{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load fetches the first page unless something has been loaded already.
func (p *Pager[T]) Load(ctx context.Context) error {
	p.mu.Lock()
	loaded := p.loaded
	p.mu.Unlock()
	if loaded {
		return nil
	}
	return p.load(ctx)
}

// Next moves to the following page. It is a no-op on the last page.
func (p *Pager[T]) Next(ctx context.Context) error {
	p.mu.Lock()
	if !p.pageInfo.HasNextPage || p.pageInfo.EndCursor == "" {
		p.mu.Unlock()
		return nil
	}
	p.history = append(p.history, p.cursor)
	p.cursor = p.pageInfo.EndCursor
	p.mu.Unlock()

	return p.load(ctx)
}

// Prev moves back one page. It is a no-op on the first page.
func (p *Pager[T]) Prev(ctx context.Context) error {
	p.mu.Lock()
	if len(p.history) == 0 {
		p.mu.Unlock()
		return nil
	}
	last := len(p.history) - 1
	p.cursor = p.history[last]
	p.history = p.history[:last]
	p.mu.Unlock()

	return p.load(ctx)
}

// SetPageSize changes the page size and returns to the first page.
func (p *Pager[T]) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return ErrInvalidPageSize
	}
	p.mu.Lock()
	p.pageSize = size
	p.reset()
	p.mu.Unlock()

	return p.load(ctx)
}

// Refresh drops the cursor history and refetches the first page.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.reset()
	p.mu.Unlock()

	return p.load(ctx)
}

// Reload refetches the current page without moving.
func (p *Pager[T]) Reload(ctx context.Context) error {
	return p.load(ctx)
}

// OnFirstPage reports whether the cursor history is empty.
func (p *Pager[T]) OnFirstPage() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.history) == 0
}

func (p *Pager[T]) Snapshot() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()

	items := make([]T, len(p.items))
	copy(items, p.items)

	return State[T]{
		Items:       items,
		TotalCount:  p.total,
		HasNextPage: p.pageInfo.HasNextPage,
		HasPrevPage: len(p.history) > 0,
		EndCursor:   p.pageInfo.EndCursor,
		Cursor:      p.cursor,
		Page:        len(p.history) + 1,
		PageSize:    p.pageSize,
		Loading:     p.loading,
		Loaded:      p.loaded,
		Error:       p.errMsg,
	}
}

// reset must be called with mu held.
func (p *Pager[T]) reset() {
	p.cursor = ""
	p.history = nil
}

func (p *Pager[T]) load(ctx context.Context) error {
	p.mu.Lock()
	req := Request{First: p.pageSize, After: p.cursor}
	p.loading = true
	p.mu.Unlock()

	page, err := p.fetch(ctx, req)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.loading = false

	if err != nil {
		// A fetch abandoned by its caller says nothing about the backend.
		if ctx.Err() == nil {
			p.errMsg = p.formatErr(err)
		}
		return err
	}

	p.errMsg = ""
	if page.NotModified && p.loaded && req == p.shown {
		return nil
	}

	p.loaded = true
	p.shown = req
	p.items = page.Items
	if p.items == nil {
		p.items = []T{}
	}
	p.total = page.TotalCount
	p.pageInfo = page.PageInfo
	return nil
}
