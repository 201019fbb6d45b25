package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/dbcentral/internal/entities"
)

// Stats summarises the database contents and the connection pool.
type Stats struct {
	Engine          Engine `json:"engine"`
	Authors         int64  `json:"authors"`
	Books           int64  `json:"books"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
}

// Stats counts authors and books in one transaction and reads the pool figures.
func (m *Manager) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Engine: m.target.Engine}
	err := m.Run(ctx, "stats", func(tx *gorm.DB) error {
		if err := tx.Model(&entities.Author{}).Count(&stats.Authors).Error; err != nil {
			return err
		}
		return tx.Model(&entities.Book{}).Count(&stats.Books).Error
	})
	if err != nil {
		return Stats{}, err
	}

	pool := m.sqlDB.Stats()
	stats.OpenConnections = pool.OpenConnections
	stats.InUse = pool.InUse
	stats.Idle = pool.Idle
	return stats, nil
}
