package database

import (
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/quaverlabs/quaver/backend/internal/practice"
	"github.com/quaverlabs/quaver/backend/internal/users"
)

const (
	migrationBackfillUnknownComposer = "2026-06-11_backfill_unknown_composer"
	migrationBackfillLogCounters     = "2026-06-11_backfill_log_counters"
)

type migrationRecord struct {
	Name             string `gorm:"column:name;primaryKey;size:190;not null"`
	AppliedAtSeconds int64  `gorm:"column:applied_at_s;not null"`
}

func (migrationRecord) TableName() string {
	return "db_migrations"
}

type migrationDefinition struct {
	name  string
	apply func(*gorm.DB) error
}

func applyMigrations(db *gorm.DB, logger *zap.Logger) error {
	migrations := []migrationDefinition{
		{name: migrationBackfillUnknownComposer, apply: backfillUnknownComposer},
		{name: migrationBackfillLogCounters, apply: backfillLogCounters},
	}

	for _, migration := range migrations {
		var record migrationRecord
		err := db.Where("name = ?", migration.name).Take(&record).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := migration.apply(db); err != nil {
			return err
		}
		appliedAt := time.Now().UTC().Unix()
		if err := db.Create(&migrationRecord{Name: migration.name, AppliedAtSeconds: appliedAt}).Error; err != nil {
			return err
		}
		if logger != nil {
			logger.Info("database migration applied", zap.String("migration", migration.name))
		}
	}
	return nil
}

// Rows imported from before the (user_id, title, composer) identity index
// could carry an empty composer; the index treats composer as part of the
// key, so empties collapse onto the Unknown sentinel.
func backfillUnknownComposer(db *gorm.DB) error {
	return db.Model(&practice.Piece{}).
		Where("composer = '' OR composer IS NULL").
		Update("composer", practice.UnknownComposer).Error
}

// Seeds user.log_counter from the highest existing log number so imported
// accounts continue their sequence instead of restarting at 1.
func backfillLogCounters(db *gorm.DB) error {
	return db.Model(&users.User{}).
		Where("log_counter = 0").
		Update("log_counter", gorm.Expr(
			"(SELECT COALESCE(MAX(user_log_number), 0) FROM practice_logs WHERE practice_logs.user_id = users.id)",
		)).Error
}
