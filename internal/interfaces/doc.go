// Package interfaces documents the core abstractions used throughout the application.
//
// This package consolidates interface documentation to help code agents understand
// extension points and how to implement new functionality.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - Entity: a record with a table name and a generated ID (internal/database/repository.go)
//   - Scope: a reusable query refinement (internal/database/repository.go)
//
// ## Observability Interfaces
//
//   - Recorder: receives operation outcomes and retries (internal/database/retry.go)
//   - logger.Interface: GORM query logging through zerolog (internal/logging/gorm.go)
//
// # Adding a New Entity
//
//  1. Declare the model in internal/entities/
//
//     type Publisher struct {
//         ID   uint   `gorm:"primaryKey"`
//         Name string `gorm:"not null;size:100" validate:"required,max=100"`
//     }
//
//     func (Publisher) TableName() string { return "publishers" }
//     func (p Publisher) EntityID() uint  { return p.ID }
//
//  2. Add a migration in internal/database/migrations.go
//
//     {
//         ID: "003_publishers",
//         Migrate: func(tx *gorm.DB) error {
//             return tx.AutoMigrate(&entities.Publisher{})
//         },
//         Rollback: func(tx *gorm.DB) error {
//             return tx.Migrator().DropTable("publishers")
//         },
//     }
//
//  3. Wrap the generic repository in internal/database/publishers/
//
//     type Repository struct {
//         base *database.Repository[entities.Publisher]
//     }
//
//  4. Add a compile-time check to checks.go
//
//     var _ database.Entity = entities.Publisher{}
//
// # Adding a New Metrics Backend
//
// Implement Recorder and pass it through database.Config.Recorder:
//
//	type statsdRecorder struct{ client *statsd.Client }
//
//	func (r *statsdRecorder) ObserveOperation(op, outcome string, elapsed time.Duration)
//	func (r *statsdRecorder) ObserveRetry(op string)
package interfaces
