// Package admin declares how each model is listed in the admin console.
//
// An adapter fixes the ordered columns of a model's changelist and knows how
// to render a record into display strings. Adapters are registered on a Site,
// which the HTML console and the Connect service both read from.
package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/gosimple/slug"

	"github.com/mmynk/together/internal/storage"
)

// ErrInvalidPage is returned for page numbers outside the changelist.
var ErrInvalidPage = errors.New("invalid page")

// Column is one heading of a changelist.
type Column struct {
	Name   string `json:"name"`
	Header string `json:"header"`
}

// Row is one rendered record.
type Row struct {
	PK     string   `json:"pk"`
	Values []string `json:"values"`
}

// Changelist is one page of a model's listing.
type Changelist struct {
	Model   string
	Slug    string
	Columns []Column
	Rows    []Row
	Page    int
	Pages   int
	Total   int
	PerPage int
}

// ModelAdmin is the behaviour a Site needs from an adapter.
type ModelAdmin interface {
	// Name is the human name of the model, e.g. "list item".
	Name() string
	// Slug is the URL-safe form of Name, e.g. "list-item".
	Slug() string
	Columns() []Column
	Changelist(ctx context.Context, store storage.Store, page, perPage int) (*Changelist, error)
}

// Field is a column of records of type T.
type Field[T any] struct {
	Name string
	// Header overrides the heading derived from Name.
	Header string
	Value  func(T) string
}

// Fetcher loads one page of records plus the total count.
type Fetcher[T any] func(ctx context.Context, store storage.Store, page storage.Page) ([]T, int, error)

// Adapter lists records of type T.
type Adapter[T any] struct {
	name   string
	slug   string
	fields []Field[T]
	pk     func(T) string
	fetch  Fetcher[T]
}

var _ ModelAdmin = (*Adapter[struct{}])(nil)

// NewAdapter builds an adapter. Fields are shown in the order given.
func NewAdapter[T any](name string, fetch Fetcher[T], pk func(T) string, fields ...Field[T]) *Adapter[T] {
	return &Adapter[T]{
		name:   name,
		slug:   slug.Make(name),
		fields: fields,
		pk:     pk,
		fetch:  fetch,
	}
}

func (a *Adapter[T]) Name() string { return a.name }
func (a *Adapter[T]) Slug() string { return a.slug }

// Columns returns the headings in display order.
func (a *Adapter[T]) Columns() []Column {
	cols := make([]Column, len(a.fields))
	for i, f := range a.fields {
		header := f.Header
		if header == "" {
			header = Header(f.Name)
		}
		cols[i] = Column{Name: f.Name, Header: header}
	}
	return cols
}

// Render turns a record into a row.
func (a *Adapter[T]) Render(record T) Row {
	values := make([]string, len(a.fields))
	for i, f := range a.fields {
		values[i] = f.Value(record)
	}
	return Row{PK: a.pk(record), Values: values}
}

// Changelist loads and renders page (1-based) of the model's records.
// An empty model still has one, empty, page.
func (a *Adapter[T]) Changelist(ctx context.Context, store storage.Store, page, perPage int) (*Changelist, error) {
	if perPage <= 0 {
		return nil, fmt.Errorf("per page must be positive, got %d", perPage)
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPage, page)
	}

	records, total, err := a.fetch(ctx, store, storage.Page{
		Offset: (page - 1) * perPage,
		Limit:  perPage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s records: %w", a.name, err)
	}

	pages := (total + perPage - 1) / perPage
	if pages == 0 {
		pages = 1
	}
	if page > pages {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidPage, page, pages)
	}

	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = a.Render(r)
	}

	return &Changelist{
		Model:   a.name,
		Slug:    a.slug,
		Columns: a.Columns(),
		Rows:    rows,
		Page:    page,
		Pages:   pages,
		Total:   total,
		PerPage: perPage,
	}, nil
}
