package http

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/database/books"
	"github.com/mrlokans/bookstore/internal/entities"
)

// BookStore defines the database operations the books controller needs.
type BookStore interface {
	GetAll() ([]entities.Book, error)
	GetByTitle(title string) (*entities.Book, error)
	DeleteByTitle(title string) (int64, error)
	UpdateByTitle(title string, fields map[string]any) (*entities.Book, error)
}

// BookCreator builds and persists enriched book records.
type BookCreator interface {
	CreateBook(ctx context.Context, title string, quantity int, price float64) (*entities.Book, error)
}

type BooksController struct {
	store   BookStore
	creator BookCreator
}

func NewBooksController(store BookStore, creator BookCreator) *BooksController {
	return &BooksController{store: store, creator: creator}
}

// addBookRequest carries the caller-supplied fields. Quantity and price are
// optional and default to 1 and 37.0.
type addBookRequest struct {
	Title    string   `json:"title" form:"title" binding:"required"`
	Quantity *int     `json:"quantity" form:"quantity"`
	Price    *float64 `json:"price" form:"price"`
}

// AddBook creates a book, enriching it with metadata from the external
// lookup before persisting.
// POST /api/books
func (bc *BooksController) AddBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "could not save")
		return
	}

	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	price := 37.0
	if req.Price != nil {
		price = *req.Price
	}

	book, err := bc.creator.CreateBook(c.Request.Context(), req.Title, quantity, price)
	if errors.Is(err, books.ErrDuplicateTitle) {
		log.Printf("Duplicate title on add: %q", req.Title)
		respondMessage(c, http.StatusConflict, "book with same name already saved")
		return
	}
	if err != nil {
		log.Printf("Failed to save book %q: %v", req.Title, err)
		respondMessage(c, http.StatusBadRequest, "could not save")
		return
	}

	c.JSON(http.StatusOK, book)
}

// ListBooks returns every stored book.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	all, err := bc.store.GetAll()
	if err != nil {
		log.Printf("Failed to list books: %v", err)
		respondMessage(c, http.StatusInternalServerError, "could not list books")
		return
	}
	if all == nil {
		all = []entities.Book{}
	}
	c.JSON(http.StatusOK, ListResponse{Books: all})
}

// FindBook looks up a single book by exact title.
// GET /api/books/search?title=
func (bc *BooksController) FindBook(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respondMessage(c, http.StatusBadRequest, "title is required")
		return
	}

	book, err := bc.store.GetByTitle(title)
	if errors.Is(err, books.ErrBookNotFound) {
		respondMessage(c, http.StatusNotFound, "book not found")
		return
	}
	if err != nil {
		log.Printf("Failed to fetch book %q: %v", title, err)
		respondMessage(c, http.StatusInternalServerError, "could not fetch book")
		return
	}

	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a book by title.
// DELETE /api/books?title=
func (bc *BooksController) DeleteBook(c *gin.Context) {
	title, ok := decodeTitleParam(c)
	if !ok {
		return
	}

	removed, err := bc.store.DeleteByTitle(title)
	if err != nil {
		log.Printf("Failed to delete book %q: %v", title, err)
		respondMessage(c, http.StatusInternalServerError, "could not delete book")
		return
	}
	if removed == 0 {
		respondMessage(c, http.StatusNotFound, "book not found")
		return
	}

	c.JSON(http.StatusOK, DeleteResponse{Message: "book removed", Title: title})
}

// UpdateBook mutates author, quantity and price of the book matching the
// title query parameter. Title itself cannot be changed.
// PUT /api/books?title=
func (bc *BooksController) UpdateBook(c *gin.Context) {
	title, ok := decodeTitleParam(c)
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondMessage(c, http.StatusBadRequest, "author, quantity and price are required")
		return
	}

	book, err := bc.store.UpdateByTitle(title, fields)
	switch {
	case errors.Is(err, books.ErrMissingFields):
		respondMessage(c, http.StatusBadRequest, "author, quantity and price are required")
	case errors.Is(err, books.ErrInvalidNumber):
		respondMessage(c, http.StatusBadRequest, "quantity and price must be numeric")
	case errors.Is(err, books.ErrBookNotFound):
		respondMessage(c, http.StatusNotFound, "book not found")
	case err != nil:
		log.Printf("Failed to update book %q: %v", title, err)
		respondMessage(c, http.StatusBadRequest, "could not update book")
	default:
		c.JSON(http.StatusOK, book)
	}
}
