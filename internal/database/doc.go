// Package database provides the data access layer for the application.
//
// # Architecture
//
//	database/
//	├── database.go      # Manager: connect with retry, pool setup, close
//	├── dialect.go       # URL parsing and GORM dialector selection
//	├── migrations.go    # gormigrate migrations
//	├── session.go       # Transaction scope (commit, rollback on error or panic)
//	├── retry.go         # Bounded fixed-delay retry loop
//	├── errors.go        # Error kinds and driver error classification
//	├── validate.go      # Struct tag validation
//	├── repository.go    # Generic CRUD repository
//	├── authors/         # Author operations
//	└── books/           # Book operations
//
// # Usage
//
//	m, err := database.New(database.Config{URL: "sqlite:///library.db"})
//	if err != nil {
//	    return err
//	}
//	defer m.Close()
//
//	authorsRepo := authors.NewRepository(m)
//	author, err := authorsRepo.Create(ctx, "Jane Doe", "jane@example.com")
//
// # Errors
//
// Every error returned by the package matches exactly one of ErrValidation,
// ErrNotFound, ErrConstraint, ErrConnection or ErrOperation via errors.Is,
// except context cancellation, which is returned as is. Lookups by ID return
// nil without an error when the row is absent.
package database
