package dashboard

import (
	"context"
	"errors"
	"sync"

	"shopdash/internal/logger"
	"shopdash/internal/models"
	"shopdash/internal/pager"
	"shopdash/internal/services/backend"
)

// ListFunc fetches one filtered page from a backend collection.
type ListFunc[T any] func(ctx context.Context, params backend.ListParams) (models.Page[T], error)

// StatsFunc fetches the summary counters shown above a list.
type StatsFunc[S any] func(ctx context.Context) (S, error)

// Filter narrows a resource list. Both fields are passed through to the backend.
type Filter struct {
	Status string `json:"status"`
	Search string `json:"search"`
}

// ResourceView is the state behind one list screen: a pager over the
// collection plus its stats block.
type ResourceView[T any, S any] struct {
	name       string
	pager      *pager.Pager[T]
	fetchStats StatsFunc[S]
	logger     *logger.Logger

	mu          sync.Mutex
	filter      Filter
	stats       S
	statsErr    string
	statsLoaded bool
}

type ResourceState[T any, S any] struct {
	pager.State[T]
	Filter     Filter `json:"filter"`
	Stats      S      `json:"stats"`
	StatsError string `json:"stats_error,omitempty"`
}

func NewResourceView[T any, S any](name string, pageSize int, list ListFunc[T], stats StatsFunc[S], logger *logger.Logger) *ResourceView[T, S] {
	v := &ResourceView[T, S]{
		name:       name,
		fetchStats: stats,
		logger:     logger.Named(name),
	}
	v.pager = pager.New(pageSize, func(ctx context.Context, req pager.Request) (models.Page[T], error) {
		f := v.Filter()
		return list(ctx, backend.ListParams{
			First:  req.First,
			After:  req.After,
			Status: f.Status,
			Search: f.Search,
		})
	}, pager.WithErrorFormatter[T](backend.DisplayMessage))
	return v
}

func (v *ResourceView[T, S]) Name() string { return v.name }

// Load fetches the first page and stats the first time the view is used.
func (v *ResourceView[T, S]) Load(ctx context.Context) error {
	v.mu.Lock()
	needStats := !v.statsLoaded
	v.mu.Unlock()

	err := v.pager.Load(ctx)
	if needStats {
		err = errors.Join(err, v.loadStats(ctx))
	}
	return v.logged("load", err)
}

func (v *ResourceView[T, S]) Next(ctx context.Context) error {
	return v.logged("next page", v.pager.Next(ctx))
}

func (v *ResourceView[T, S]) Prev(ctx context.Context) error {
	return v.logged("previous page", v.pager.Prev(ctx))
}

func (v *ResourceView[T, S]) SetPageSize(ctx context.Context, size int) error {
	return v.logged("set page size", v.pager.SetPageSize(ctx, size))
}

// SetFilter applies f and returns to the first page.
func (v *ResourceView[T, S]) SetFilter(ctx context.Context, f Filter) error {
	v.mu.Lock()
	v.filter = f
	v.mu.Unlock()
	return v.logged("filter", v.pager.Refresh(ctx))
}

// Refresh returns to the first page and refetches stats.
func (v *ResourceView[T, S]) Refresh(ctx context.Context) error {
	err := errors.Join(v.pager.Refresh(ctx), v.loadStats(ctx))
	return v.logged("refresh", err)
}

// Reload refetches the current page and stats without moving.
func (v *ResourceView[T, S]) Reload(ctx context.Context) error {
	err := errors.Join(v.pager.Reload(ctx), v.loadStats(ctx))
	return v.logged("reload", err)
}

func (v *ResourceView[T, S]) Filter() Filter {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.filter
}

func (v *ResourceView[T, S]) Stats() S {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

func (v *ResourceView[T, S]) State() ResourceState[T, S] {
	page := v.pager.Snapshot()

	v.mu.Lock()
	defer v.mu.Unlock()
	return ResourceState[T, S]{
		State:      page,
		Filter:     v.filter,
		Stats:      v.stats,
		StatsError: v.statsErr,
	}
}

func (v *ResourceView[T, S]) loadStats(ctx context.Context) error {
	stats, err := v.fetchStats(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.statsErr = backend.DisplayMessage(err)
		return err
	}
	v.stats = stats
	v.statsErr = ""
	v.statsLoaded = true
	return nil
}

func (v *ResourceView[T, S]) logged(op string, err error) error {
	if err != nil {
		v.logger.Error("%s failed: %v", op, err)
	}
	return err
}
