package entities

import "time"

// AuthorNotFound is the placeholder stored when the external lookup yields
// no author for a title.
const AuthorNotFound = "author not found"

type Book struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"uniqueIndex;size:140" json:"title"`
	Author      string    `gorm:"size:140" json:"author"`
	Quantity    int       `json:"quantity"`
	Price       float64   `json:"price"`
	Description *string   `gorm:"type:text" json:"description"`
	CoverURL    *string   `gorm:"size:2048" json:"cover_url"`
	InsertedAt  time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Book) TableName() string {
	return "books"
}
