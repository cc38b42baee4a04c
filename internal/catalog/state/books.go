package state

import (
	"context"
	"sync"

	"github.com/openshelf/openshelf/internal/catalog/model"
)

// BookGateway is the slice of the API client the book store depends on.
type BookGateway interface {
	CreateBook(ctx context.Context, draft model.BookDraft) (*model.Book, error)
	ListBooks(ctx context.Context, page int) ([]model.Book, model.Meta, error)
}

// BookStore maintains the paginated book collection visible to the UI.
type BookStore struct {
	mu      sync.RWMutex
	gateway BookGateway
	books   []model.Book
	meta    model.Meta
}

// NewBookStore constructs an empty store backed by the given gateway.
func NewBookStore(gateway BookGateway) *BookStore {
	return &BookStore{
		gateway: gateway,
		meta:    model.Meta{CurrentPage: 1},
	}
}

// Add creates a new book remotely. The local snapshot is not touched; the
// caller follows up with GetAll so the visible collection reflects the
// server's pagination, not a locally guessed one.
func (s *BookStore) Add(ctx context.Context, draft model.BookDraft) error {
	_, err := s.gateway.CreateBook(ctx, draft)
	return err
}

// GetAll fetches the requested page and replaces the snapshot and cursor.
func (s *BookStore) GetAll(ctx context.Context, page int) error {
	books, meta, err := s.gateway.ListBooks(ctx, page)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]model.Book, len(books))
	copy(cp, books)
	s.books = cp
	if meta.CurrentPage < 1 {
		meta.CurrentPage = page
	}
	s.meta = meta
	return nil
}

// CurrentPage returns the pagination cursor of the visible collection.
func (s *BookStore) CurrentPage() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.meta.CurrentPage < 1 {
		return 1
	}
	return s.meta.CurrentPage
}

// Meta returns the pagination meta of the last refresh.
func (s *BookStore) Meta() model.Meta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meta
}

// Snapshot returns a copy of the current collection.
//
// Callers can safely modify the returned slice without affecting the store.
func (s *BookStore) Snapshot() []model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make([]model.Book, len(s.books))
	copy(cp, s.books)
	return cp
}
