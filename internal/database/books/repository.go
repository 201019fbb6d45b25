// Package books provides database operations for books.
//
// Every book belongs to an existing author; creating a book for an unknown
// author fails with database.ErrNotFound.
//
// # Usage
//
//	repo := books.NewRepository(manager)
//	book, err := repo.Create(ctx, "Title", "Content", author.ID)
package books

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/entities"
)

// Repository handles book persistence.
type Repository struct {
	m    *database.Manager
	base *database.Repository[entities.Book]
}

// NewRepository creates a new books repository.
func NewRepository(m *database.Manager) *Repository {
	return &Repository{m: m, base: database.NewRepository[entities.Book](m)}
}

// BookUpdate lists the fields to change. Nil fields are left as they are.
type BookUpdate struct {
	Title    *string
	Content  *string
	AuthorID *uint
}

func (u BookUpdate) fields() database.Filters {
	fields := database.Filters{}
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Content != nil {
		fields["content"] = *u.Content
	}
	if u.AuthorID != nil {
		fields["author_id"] = *u.AuthorID
	}
	return fields
}

// Create stores a new book for the author with authorID.
func (r *Repository) Create(ctx context.Context, title, content string, authorID uint) (*entities.Book, error) {
	book := &entities.Book{Title: title, Content: content, AuthorID: authorID}
	if err := database.Validate(book); err != nil {
		return nil, err
	}

	err := r.m.Run(ctx, "books.create", func(tx *gorm.DB) error {
		if err := authorExists(tx, authorID); err != nil {
			return err
		}
		return tx.Omit("Author").Create(book).Error
	})
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Get returns the book with the given ID, or nil if there is none.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Book, error) {
	return r.base.GetByID(ctx, id)
}

// List returns up to limit books ordered by ID. A limit of zero returns all.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.Book, error) {
	return r.base.GetAll(ctx, limit)
}

// FindByTitle returns the books with exactly this title.
func (r *Repository) FindByTitle(ctx context.Context, title string) ([]entities.Book, error) {
	return r.base.FindBy(ctx, database.Filters{"title": strings.TrimSpace(title)})
}

// ByAuthor returns the author's books ordered by ID.
func (r *Repository) ByAuthor(ctx context.Context, authorID uint) ([]entities.Book, error) {
	return r.base.FindBy(ctx, database.Filters{"author_id": authorID})
}

// Search returns books whose title or content contains query, ignoring case.
func (r *Repository) Search(ctx context.Context, query string) ([]entities.Book, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, &database.ValidationError{Field: "query", Reason: "cannot be empty"}
	}
	pattern := "%" + strings.ToLower(query) + "%"
	return r.base.FindScoped(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", pattern, pattern)
	}, database.OrderByID)
}

// Update applies the non-nil fields of update to the book. Moving a book to
// another author requires that author to exist.
func (r *Repository) Update(ctx context.Context, id uint, update BookUpdate) (*entities.Book, error) {
	fields := update.fields()
	if len(fields) == 0 {
		book, err := r.Get(ctx, id)
		if err == nil && book == nil {
			err = fmt.Errorf("%w: books with id %d", database.ErrNotFound, id)
		}
		return book, err
	}
	if update.AuthorID != nil {
		err := r.m.Run(ctx, "books.check_author", func(tx *gorm.DB) error {
			return authorExists(tx, *update.AuthorID)
		})
		if err != nil {
			return nil, err
		}
	}
	return r.base.UpdateFields(ctx, id, fields)
}

// Delete removes the book and reports whether it existed.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.base.Delete(ctx, id)
}

// Count returns the number of books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx, nil)
}

// CountByAuthor returns the number of books written by the author.
func (r *Repository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return r.base.Count(ctx, database.Filters{"author_id": authorID})
}

// WithAuthor returns the book with its author loaded, or nil.
func (r *Repository) WithAuthor(ctx context.Context, id uint) (*entities.Book, error) {
	return r.base.FirstScoped(ctx, database.ByID(id), func(db *gorm.DB) *gorm.DB {
		return db.Preload("Author")
	})
}

func authorExists(tx *gorm.DB, authorID uint) error {
	var n int64
	if err := tx.Model(&entities.Author{}).Where("id = ?", authorID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: authors with id %d", database.ErrNotFound, authorID)
	}
	return nil
}
