package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/ericogr/gaia-combat/internal/catalog"
	"github.com/ericogr/gaia-combat/internal/dedupe"
	"github.com/ericogr/gaia-combat/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
	// name keys the shared snapshot load; use the data source name.
	name string
}

func NewSQLiteRepository(db *gorm.DB, name string) Repository {
	return &sqliteRepository{db: db, name: name}
}

func (r *sqliteRepository) Snapshot(ctx context.Context) (*catalog.Memory, error) {
	v, err, _ := dedupe.CatalogGroup.Do("catalog:"+r.name, func() (interface{}, error) {
		return r.loadSnapshot(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*catalog.Memory), nil
}

func (r *sqliteRepository) loadSnapshot(ctx context.Context) (*catalog.Memory, error) {
	db := r.db.WithContext(ctx)
	var abilities []game.Ability
	if err := db.Order("catalog_key").Find(&abilities).Error; err != nil {
		return nil, fmt.Errorf("load abilities: %w", err)
	}
	var enemies []game.Enemy
	if err := db.Order("catalog_key").Find(&enemies).Error; err != nil {
		return nil, fmt.Errorf("load enemies: %w", err)
	}
	var loadouts []game.Loadout
	if err := db.Order("user_id").Find(&loadouts).Error; err != nil {
		return nil, fmt.Errorf("load loadouts: %w", err)
	}
	return catalog.NewMemory(abilities, enemies, loadouts), nil
}

func (r *sqliteRepository) GetLoadout(userID string) (*game.Loadout, error) {
	var l game.Loadout
	if err := r.db.Where("user_id = ?", userID).First(&l).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("loadout for user %q: %w", userID, catalog.ErrNotFound)
		}
		return nil, err
	}
	return &l, nil
}

func (r *sqliteRepository) UpsertLoadout(l *game.Loadout) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "max_health", "weapon_damage", "weapon_ability_keys", "equipped_ability_keys", "updated_at",
		}),
	}).Create(l).Error
}

func (r *sqliteRepository) SaveEncounter(rec *game.EncounterRecord) error {
	return r.db.Create(rec).Error
}

func (r *sqliteRepository) ListEncounters(userID string, limit int) ([]game.EncounterRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []game.EncounterRecord
	if err := r.db.Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *sqliteRepository) OutcomeCounts(userID string) (map[game.Outcome]int64, error) {
	var rows []struct {
		Outcome game.Outcome
		Total   int64
	}
	if err := r.db.Model(&game.EncounterRecord{}).
		Select("outcome, count(*) AS total").
		Where("user_id = ?", userID).
		Group("outcome").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[game.Outcome]int64, len(rows))
	for _, row := range rows {
		out[row.Outcome] = row.Total
	}
	return out, nil
}
