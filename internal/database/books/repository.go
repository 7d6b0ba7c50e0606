// Package books provides database operations for book record management.
//
// Each mutating operation runs inside its own transaction so the unit of
// work is committed or rolled back on every exit path.
package books

import (
	"errors"
	"fmt"
	"strconv"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/entities"
)

var (
	// ErrDuplicateTitle is returned on create when the title is taken.
	ErrDuplicateTitle = errors.New("book with the same title already exists")
	// ErrBookNotFound is returned when no record matches the title.
	ErrBookNotFound = errors.New("book not found")
	// ErrMissingFields is returned on update when author, quantity or price
	// is absent from the payload.
	ErrMissingFields = errors.New("author, quantity and price are required")
	// ErrInvalidNumber is returned on update when quantity or price is
	// present but not numerically convertible.
	ErrInvalidNumber = errors.New("quantity and price must be numeric")
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new book. A unique-title violation surfaces as
// ErrDuplicateTitle; the transaction guarantees no partial state survives
// a failed insert.
func (r *Repository) Create(book *entities.Book) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(book).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateTitle
		}
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

// GetAll returns every stored book. An empty store yields an empty slice.
func (r *Repository) GetAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Find(&books).Error
	return books, err
}

// GetByTitle returns the book matching title exactly.
func (r *Repository) GetByTitle(title string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Where("title = ?", title).First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// DeleteByTitle removes the book matching title and reports how many rows
// were removed (0 or 1, title is unique).
func (r *Repository) DeleteByTitle(title string) (int64, error) {
	var removed int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("title = ?", title).Delete(&entities.Book{})
		removed = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("delete book: %w", err)
	}
	return removed, nil
}

// UpdateByTitle mutates author, quantity and price of the book matching
// title. All three fields must be present; quantity and price may arrive as
// JSON numbers or numeric strings. Title itself is immutable and the
// remaining fields are never touched.
func (r *Repository) UpdateByTitle(title string, fields map[string]any) (*entities.Book, error) {
	authorRaw, hasAuthor := fields["author"]
	quantityRaw, hasQuantity := fields["quantity"]
	priceRaw, hasPrice := fields["price"]
	if !hasAuthor || !hasQuantity || !hasPrice {
		return nil, ErrMissingFields
	}

	author, ok := authorRaw.(string)
	if !ok {
		return nil, ErrMissingFields
	}
	quantity, err := toInt(quantityRaw)
	if err != nil {
		return nil, ErrInvalidNumber
	}
	price, err := toFloat(priceRaw)
	if err != nil {
		return nil, ErrInvalidNumber
	}

	var updated entities.Book
	err = r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.Where("title = ?", title).First(&book).Error; err != nil {
			return err
		}

		err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
			"author":   author,
			"quantity": quantity,
			"price":    price,
		}).Error
		if err != nil {
			return err
		}

		book.Author = author
		book.Quantity = quantity
		book.Price = price
		updated = book
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBookNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}
	return &updated, nil
}

// ListMissingAuthor returns books still carrying the placeholder author.
func (r *Repository) ListMissingAuthor() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("author = ?", entities.AuthorNotFound).Find(&books).Error
	return books, err
}

// UpdateMetadata writes lookup results onto an existing book. Nil optional
// fields are left untouched.
func (r *Repository) UpdateMetadata(id uint, author string, description, coverURL *string) error {
	updates := map[string]any{"author": author}
	if description != nil {
		updates["description"] = *description
	}
	if coverURL != nil {
		updates["cover_url"] = *coverURL
	}
	return r.db.Model(&entities.Book{}).Where("id = ?", id).Updates(updates).Error
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// toInt converts a JSON payload value to an int. JSON numbers decode as
// float64 and are truncated; numeric strings are parsed.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(n), nil
	case int:
		return n, nil
	case string:
		return strconv.Atoi(n)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}
