package entities

import (
	"strings"
	"time"
)

// Field length limits shared by the gorm schema and validation tags.
const (
	AuthorNameMaxLength  = 100
	AuthorEmailMaxLength = 100
	BookTitleMaxLength   = 200
)

type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;index" json:"name" validate:"required,max=100"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email" validate:"required,max=100,email"`
	Books     []Book    `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty" validate:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null;index" json:"title" validate:"required,max=200"`
	Content   string    `gorm:"type:text;not null" json:"content" validate:"required"`
	AuthorID  uint      `gorm:"not null;index" json:"author_id" validate:"required"`
	Author    *Author   `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty" validate:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Book) TableName() string {
	return "books"
}

func (a Author) EntityID() uint {
	return a.ID
}

func (b Book) EntityID() uint {
	return b.ID
}

// Normalize trims surrounding whitespace so that blank values fail the
// required check instead of being stored.
func (a *Author) Normalize() {
	a.Name = strings.TrimSpace(a.Name)
	a.Email = strings.TrimSpace(a.Email)
}

func (b *Book) Normalize() {
	b.Title = strings.TrimSpace(b.Title)
	b.Content = strings.TrimSpace(b.Content)
}
