package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"okx_bridge/internal/domain"
)

// InstrumentSnapshot is the persisted form of one instrument's constraints.
// Sizes are stored as decimal strings to avoid any float round-trip.
type InstrumentSnapshot struct {
	InstID    string    `gorm:"primaryKey;column:inst_id"`
	LotSz     string    `gorm:"column:lot_sz"`
	MinSz     string    `gorm:"column:min_sz"`
	FetchedAt time.Time `gorm:"column:fetched_at"`
	UpdatedAt time.Time
}

// Storage persists instrument constraint snapshots so the metadata cache
// survives restarts. Nothing order- or position-related is stored here.
type Storage struct {
	db *gorm.DB
}

// NewStorage creates a new SQLite storage instance at the given path.
func NewStorage(dbPath string) (*Storage, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create DB directory: %w", err)
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&InstrumentSnapshot{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Storage{db: db}, nil
}

// UpsertSnapshot creates or updates the snapshot for one instrument. The
// whole record is replaced, matching the cache's refresh semantics.
func (s *Storage) UpsertSnapshot(c *domain.InstrumentConstraints) error {
	row := InstrumentSnapshot{
		InstID:    c.InstID,
		LotSz:     c.LotSize.String(),
		MinSz:     c.MinSize.String(),
		FetchedAt: c.FetchedAt,
	}
	return s.db.Save(&row).Error
}

// LoadSnapshots returns every persisted snapshot. Rows that no longer parse
// are skipped with a warning rather than failing the whole load.
func (s *Storage) LoadSnapshots() ([]*domain.InstrumentConstraints, error) {
	var rows []InstrumentSnapshot
	if err := s.db.Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.InstrumentConstraints, 0, len(rows))
	for _, row := range rows {
		lotSz, err := decimal.NewFromString(row.LotSz)
		if err != nil {
			slog.Warn("skipping snapshot with bad lot size",
				slog.String("instId", row.InstID), slog.String("lotSz", row.LotSz))
			continue
		}
		minSz, err := decimal.NewFromString(row.MinSz)
		if err != nil {
			slog.Warn("skipping snapshot with bad min size",
				slog.String("instId", row.InstID), slog.String("minSz", row.MinSz))
			continue
		}
		result = append(result, &domain.InstrumentConstraints{
			InstID:    row.InstID,
			LotSize:   lotSz,
			MinSize:   minSz,
			FetchedAt: row.FetchedAt,
		})
	}
	return result, nil
}
