package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"gorm.io/gorm/logger"

	"github.com/mrlokans/dbcentral/internal/database"
	"github.com/mrlokans/dbcentral/internal/entities"
	"github.com/mrlokans/dbcentral/internal/logging"
	"github.com/mrlokans/dbcentral/internal/metrics"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Entity implementations
var _ database.Entity = entities.Author{}
var _ database.Entity = entities.Book{}

// Validation errors
var _ error = (*database.ValidationError)(nil)

// =============================================================================
// Observability
// =============================================================================

// Recorder implementations
var _ database.Recorder = (*metrics.Collector)(nil)

// GORM logger implementations
var _ logger.Interface = (*logging.GormLogger)(nil)
