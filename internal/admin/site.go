package admin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/mmynk/together/internal/metrics"
	"github.com/mmynk/together/internal/storage"
)

// DefaultPerPage is the number of rows on a changelist page.
const DefaultPerPage = 100

var (
	ErrAlreadyRegistered = errors.New("model already registered")
	ErrNotRegistered     = errors.New("model not registered")
)

// Site is the registry of model adapters, bound to a store.
type Site struct {
	store   storage.Store
	perPage int

	mu     sync.RWMutex
	models []ModelAdmin
	bySlug map[string]ModelAdmin
}

// NewSite creates an empty site. A non-positive perPage selects DefaultPerPage.
func NewSite(store storage.Store, perPage int) *Site {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Site{
		store:   store,
		perPage: perPage,
		bySlug:  make(map[string]ModelAdmin),
	}
}

// Register adds m to the site.
func (s *Site) Register(m ModelAdmin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bySlug[m.Slug()]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, m.Name())
	}
	s.bySlug[m.Slug()] = m
	s.models = append(s.models, m)
	return nil
}

// Lookup finds the adapter registered under slug.
func (s *Site) Lookup(slug string) (ModelAdmin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotRegistered, slug)
	}
	return m, nil
}

// Models returns the registered adapters in registration order.
func (s *Site) Models() []ModelAdmin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ModelAdmin, len(s.models))
	copy(out, s.models)
	return out
}

// PerPage is the page size of changelists on this site.
func (s *Site) PerPage() int { return s.perPage }

// Changelist renders one page of the model registered under slug.
func (s *Site) Changelist(ctx context.Context, slug string, page int) (*Changelist, error) {
	m, err := s.Lookup(slug)
	if err != nil {
		return nil, err
	}

	cl, err := m.Changelist(ctx, s.store, page, s.perPage)
	if err != nil {
		return nil, err
	}

	metrics.ChangelistRenders.WithLabelValues(slug).Inc()
	return cl, nil
}

// ParsePage parses a 1-based page number from a query value.
// Empty means the first page.
func ParsePage(v string) (int, error) {
	if v == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPage, v)
	}
	return n, nil
}
