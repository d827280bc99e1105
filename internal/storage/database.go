package storage

import (
	"github.com/ericogr/gaia-combat/internal/constants"
	"github.com/ericogr/gaia-combat/internal/game"
	"github.com/ericogr/gaia-combat/internal/logging"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seed is the catalog written into an empty database. Loadouts are not
// seeded; they are upserted from the config on every start.
type Seed struct {
	Abilities []game.Ability
	Enemies   []game.Enemy
}

func OpenAndMigrate(dataSourceName string, seed Seed) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; batch encounters share a single connection.
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(&game.Ability{}, &game.Enemy{}, &game.Loadout{}, &game.EncounterRecord{})
	if err != nil {
		return nil, err
	}
	if err := seedCatalog(db, seed); err != nil {
		return nil, err
	}
	return db, nil
}

// seedCatalog fills each catalog table from the config when it is empty.
// Existing rows are kept so edits made through the repository survive
// restarts; delete the database file to reseed.
func seedCatalog(db *gorm.DB, seed Seed) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if n, err := seedTable(tx, &game.Ability{}, seed.Abilities); err != nil {
			return err
		} else if n > 0 {
			logging.Info("seeded abilities", logging.Fields{constants.LogFieldCount: n})
		}
		if n, err := seedTable(tx, &game.Enemy{}, seed.Enemies); err != nil {
			return err
		} else if n > 0 {
			logging.Info("seeded enemies", logging.Fields{constants.LogFieldCount: n})
		}
		return nil
	})
}

func seedTable[T any](tx *gorm.DB, model *T, rows []T) (int, error) {
	var count int64
	if err := tx.Model(model).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 || len(rows) == 0 {
		return 0, nil
	}
	// copy so the caller's config slices keep zero gorm.Model fields
	batch := make([]T, len(rows))
	copy(batch, rows)
	if err := tx.Create(&batch).Error; err != nil {
		return 0, err
	}
	return len(batch), nil
}
