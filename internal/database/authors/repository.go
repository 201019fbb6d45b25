// Package authors provides database operations for authors.
//
// # Usage
//
//	repo := authors.NewRepository(manager)
//	author, err := repo.Create(ctx, "Jane Doe", "jane@example.com")
package authors

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/entities"
)

// Repository handles author persistence.
type Repository struct {
	base *database.Repository[entities.Author]
}

// NewRepository creates a new authors repository.
func NewRepository(m *database.Manager) *Repository {
	return &Repository{base: database.NewRepository[entities.Author](m)}
}

// Create stores a new author. The email must not belong to another author.
func (r *Repository) Create(ctx context.Context, name, email string) (*entities.Author, error) {
	author := &entities.Author{Name: name, Email: email}
	if err := database.Validate(author); err != nil {
		return nil, err
	}

	existing, err := r.FindByEmail(ctx, author.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, emailInUse(author.Email)
	}

	if err := r.base.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// CreateMany stores several authors in one transaction.
func (r *Repository) CreateMany(ctx context.Context, authors []*entities.Author) error {
	return r.base.CreateMany(ctx, authors)
}

// Get returns the author with the given ID, or nil if there is none.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.Author, error) {
	return r.base.GetByID(ctx, id)
}

// List returns up to limit authors ordered by ID. A limit of zero returns all.
func (r *Repository) List(ctx context.Context, limit int) ([]entities.Author, error) {
	return r.base.GetAll(ctx, limit)
}

// FindByName returns the authors with exactly this name.
func (r *Repository) FindByName(ctx context.Context, name string) ([]entities.Author, error) {
	return r.base.FindBy(ctx, database.Filters{"name": strings.TrimSpace(name)})
}

// FindByEmail returns the author with this email, or nil.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*entities.Author, error) {
	email = strings.TrimSpace(email)
	return r.base.FirstScoped(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

// SearchByName returns authors whose name contains pattern, ignoring case.
func (r *Repository) SearchByName(ctx context.Context, pattern string) ([]entities.Author, error) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, &database.ValidationError{Field: "pattern", Reason: "cannot be empty"}
	}
	return r.base.FindScoped(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(pattern)+"%")
	}, database.OrderByID)
}

// UpdateEmail changes an author's email. It fails with ErrNotFound when the
// author does not exist and with a validation error when another author
// already uses the address.
func (r *Repository) UpdateEmail(ctx context.Context, id uint, email string) (*entities.Author, error) {
	if err := r.mustExist(ctx, id); err != nil {
		return nil, err
	}

	email = strings.TrimSpace(email)
	other, err := r.base.FirstScoped(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ? AND id <> ?", email, id)
	})
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, emailInUse(email)
	}

	return r.base.UpdateFields(ctx, id, database.Filters{"email": email})
}

// Rename changes an author's name.
func (r *Repository) Rename(ctx context.Context, id uint, name string) (*entities.Author, error) {
	return r.base.UpdateFields(ctx, id, database.Filters{"name": name})
}

// Delete removes the author and, through the foreign key cascade, their books.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	return r.base.Delete(ctx, id)
}

// Count returns the number of authors.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.base.Count(ctx, nil)
}

// WithBooks returns the author with their books loaded in ID order, or nil.
func (r *Repository) WithBooks(ctx context.Context, id uint) (*entities.Author, error) {
	return r.base.FirstScoped(ctx, database.ByID(id), func(db *gorm.DB) *gorm.DB {
		return db.Preload("Books", database.OrderByID)
	})
}

func (r *Repository) mustExist(ctx context.Context, id uint) error {
	author, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if author == nil {
		return fmt.Errorf("%w: authors with id %d", database.ErrNotFound, id)
	}
	return nil
}

func emailInUse(email string) error {
	return &database.ValidationError{Field: "email", Reason: fmt.Sprintf("%q already exists", email)}
}
