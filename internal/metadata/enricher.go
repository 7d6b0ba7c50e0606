package metadata

import (
	"context"
	"errors"
	"log"

	"github.com/mrlokans/bookstore/internal/entities"
)

// MetadataProvider defines the interface for fetching book metadata.
type MetadataProvider interface {
	SearchByTitle(ctx context.Context, title string) (*VolumeMetadata, error)
}

// BookStore defines the persistence operations the enricher needs.
type BookStore interface {
	Create(book *entities.Book) error
	UpdateMetadata(id uint, author string, description, coverURL *string) error
}

// Enricher builds fully-populated book records from partial caller input,
// filling author, description and cover from the external lookup.
type Enricher struct {
	provider MetadataProvider
	store    BookStore
}

// NewEnricher creates a new Enricher with the given metadata provider and store.
func NewEnricher(provider MetadataProvider, store BookStore) *Enricher {
	return &Enricher{
		provider: provider,
		store:    store,
	}
}

// CreateBook looks up metadata for title, falls back to defaults on any
// lookup failure and persists the resulting record. The lookup can never
// fail the create; storage errors propagate to the caller.
func (e *Enricher) CreateBook(ctx context.Context, title string, quantity int, price float64) (*entities.Book, error) {
	meta := e.lookup(ctx, title)

	book := &entities.Book{
		Title:    title,
		Author:   entities.AuthorNotFound,
		Quantity: quantity,
		Price:    price,
	}
	if author, ok := meta.Author.First(); ok {
		book.Author = author
	}
	if meta.Description != "" {
		book.Description = &meta.Description
	}
	if meta.CoverURL != "" {
		book.CoverURL = &meta.CoverURL
	}

	if err := e.store.Create(book); err != nil {
		return nil, err
	}
	return book, nil
}

// lookup absorbs every lookup failure and degrades to empty metadata.
// Timeouts and network errors are expected and logged as warnings; anything
// else is logged with full detail.
func (e *Enricher) lookup(ctx context.Context, title string) *VolumeMetadata {
	meta, err := e.provider.SearchByTitle(ctx, title)
	if err == nil {
		return meta
	}

	var lookupErr *LookupError
	if errors.As(err, &lookupErr) &&
		(lookupErr.Kind == LookupTimeout || lookupErr.Kind == LookupNetwork) {
		log.Printf("WARNING: external lookup failed for %q: %v", title, err)
	} else {
		log.Printf("ERROR: unexpected external lookup failure for %q: %v", title, err)
	}
	return &VolumeMetadata{}
}

// RefreshAuthor retries the lookup for a book stored with the placeholder
// author. Returns true when new metadata was written; description and cover
// are only filled, never overwritten.
func (e *Enricher) RefreshAuthor(ctx context.Context, book *entities.Book) (bool, error) {
	meta, err := e.provider.SearchByTitle(ctx, book.Title)
	if err != nil {
		return false, err
	}

	author, ok := meta.Author.First()
	if !ok {
		return false, nil
	}

	var description, coverURL *string
	if book.Description == nil && meta.Description != "" {
		description = &meta.Description
	}
	if book.CoverURL == nil && meta.CoverURL != "" {
		coverURL = &meta.CoverURL
	}

	if err := e.store.UpdateMetadata(book.ID, author, description, coverURL); err != nil {
		return false, err
	}
	return true, nil
}
