package metadata

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookstore/internal/entities"
)

type fakeProvider struct {
	meta *VolumeMetadata
	err  error
}

func (p *fakeProvider) SearchByTitle(ctx context.Context, title string) (*VolumeMetadata, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.meta, nil
}

type fakeStore struct {
	created   []*entities.Book
	createErr error

	metadataID     uint
	metadataAuthor string
	metadataDesc   *string
	metadataCover  *string
}

func (s *fakeStore) Create(book *entities.Book) error {
	if s.createErr != nil {
		return s.createErr
	}
	book.ID = uint(len(s.created) + 1)
	s.created = append(s.created, book)
	return nil
}

func (s *fakeStore) UpdateMetadata(id uint, author string, description, coverURL *string) error {
	s.metadataID = id
	s.metadataAuthor = author
	s.metadataDesc = description
	s.metadataCover = coverURL
	return nil
}

func TestEnricher_CreateBook(t *testing.T) {
	t.Run("fills fields from lookup", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{
			Author:      AuthorField{Kind: AuthorList, Values: []string{"A", "B"}},
			Description: "a classic",
			CoverURL:    "https://example.com/cover.jpg",
		}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book, err := enricher.CreateBook(context.Background(), "Dom Casmurro", 2, 25.0)
		require.NoError(t, err)

		// First author wins
		assert.Equal(t, "A", book.Author)
		assert.Equal(t, "Dom Casmurro", book.Title)
		assert.Equal(t, 2, book.Quantity)
		assert.Equal(t, 25.0, book.Price)
		require.NotNil(t, book.Description)
		assert.Equal(t, "a classic", *book.Description)
		require.NotNil(t, book.CoverURL)
		assert.Equal(t, "https://example.com/cover.jpg", *book.CoverURL)
		assert.NotZero(t, book.ID)
		require.Len(t, store.created, 1)
	})

	t.Run("lookup failure degrades to defaults", func(t *testing.T) {
		provider := &fakeProvider{err: &LookupError{Kind: LookupTimeout, Err: errors.New("deadline exceeded")}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book, err := enricher.CreateBook(context.Background(), "Dom Casmurro", 1, 37.0)
		require.NoError(t, err)

		assert.Equal(t, entities.AuthorNotFound, book.Author)
		assert.Nil(t, book.Description)
		assert.Nil(t, book.CoverURL)
		require.Len(t, store.created, 1)
	})

	t.Run("empty lookup result keeps sentinel author", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book, err := enricher.CreateBook(context.Background(), "Dom Casmurro", 1, 37.0)
		require.NoError(t, err)

		assert.Equal(t, entities.AuthorNotFound, book.Author)
		assert.Nil(t, book.Description)
		assert.Nil(t, book.CoverURL)
	})

	t.Run("single author value is used directly", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{
			Author: AuthorField{Kind: AuthorSingle, Values: []string{"Machado de Assis"}},
		}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book, err := enricher.CreateBook(context.Background(), "Dom Casmurro", 1, 37.0)
		require.NoError(t, err)
		assert.Equal(t, "Machado de Assis", book.Author)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{}}
		storeErr := errors.New("duplicate")
		store := &fakeStore{createErr: storeErr}
		enricher := NewEnricher(provider, store)

		_, err := enricher.CreateBook(context.Background(), "Dom Casmurro", 1, 37.0)
		assert.ErrorIs(t, err, storeErr)
	})
}

func TestEnricher_RefreshAuthor(t *testing.T) {
	t.Run("writes found metadata", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{
			Author:      AuthorField{Kind: AuthorList, Values: []string{"Machado de Assis"}},
			Description: "a classic",
		}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book := &entities.Book{ID: 7, Title: "Dom Casmurro", Author: entities.AuthorNotFound}
		updated, err := enricher.RefreshAuthor(context.Background(), book)
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, uint(7), store.metadataID)
		assert.Equal(t, "Machado de Assis", store.metadataAuthor)
		require.NotNil(t, store.metadataDesc)
		assert.Equal(t, "a classic", *store.metadataDesc)
		assert.Nil(t, store.metadataCover)
	})

	t.Run("nothing found leaves the book alone", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book := &entities.Book{ID: 7, Title: "Dom Casmurro", Author: entities.AuthorNotFound}
		updated, err := enricher.RefreshAuthor(context.Background(), book)
		require.NoError(t, err)
		assert.False(t, updated)
		assert.Zero(t, store.metadataID)
	})

	t.Run("existing description is not overwritten", func(t *testing.T) {
		provider := &fakeProvider{meta: &VolumeMetadata{
			Author:      AuthorField{Kind: AuthorList, Values: []string{"Machado de Assis"}},
			Description: "fresh description",
		}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		existing := "old description"
		book := &entities.Book{ID: 7, Title: "Dom Casmurro", Author: entities.AuthorNotFound, Description: &existing}
		updated, err := enricher.RefreshAuthor(context.Background(), book)
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Nil(t, store.metadataDesc)
	})

	t.Run("lookup errors surface to the sweep", func(t *testing.T) {
		provider := &fakeProvider{err: &LookupError{Kind: LookupNetwork, Err: errors.New("connection refused")}}
		store := &fakeStore{}
		enricher := NewEnricher(provider, store)

		book := &entities.Book{ID: 7, Title: "Dom Casmurro", Author: entities.AuthorNotFound}
		_, err := enricher.RefreshAuthor(context.Background(), book)
		assert.Error(t, err)
	})
}
