package services

import (
	"context"
	"errors"

	"hotel-frontdesk/frontdesk"
	"hotel-frontdesk/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrPersistence wraps a failed save. The command that triggered it is not applied.
var ErrPersistence = errors.New("persistence failed")

// Store loads the registry and ledger at startup and saves the full snapshot after every
// committed command.
type Store interface {
	Load(ctx context.Context) ([]models.Room, []models.GuestHistory, error)
	Save(ctx context.Context, rooms []models.Room, ledger []models.GuestHistory) error
}

type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) Load(ctx context.Context) ([]models.Room, []models.GuestHistory, error) {
	var rooms []models.Room
	if err := s.DB.WithContext(ctx).Order("id").Find(&rooms).Error; err != nil {
		return nil, nil, err
	}
	var ledger []models.GuestHistory
	if err := s.DB.WithContext(ctx).Order("check_in_time, id").Find(&ledger).Error; err != nil {
		return nil, nil, err
	}
	return rooms, ledger, nil
}

// Save replaces the stored snapshot inside one transaction. Rooms missing from the snapshot
// are deleted first so a renumbered room never collides with the row it replaced.
func (s *GormStore) Save(ctx context.Context, rooms []models.Room, ledger []models.GuestHistory) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids := make([]uint, 0, len(rooms))
		for _, r := range rooms {
			ids = append(ids, r.ID)
		}
		del := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(&models.Room{}).Error; err != nil {
			return err
		}
		if len(rooms) > 0 {
			if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rooms).Error; err != nil {
				return err
			}
		}

		if len(ledger) == 0 {
			return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.GuestHistory{}).Error
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(&ledger, 200).Error
	})
}

// LoadState builds the startup State. With no store, or an empty one, the seed rooms are used
// and written back.
func LoadState(ctx context.Context, store Store, seed []models.Room) (frontdesk.State, error) {
	if store == nil {
		return frontdesk.NewState(seed, nil)
	}
	rooms, ledger, err := store.Load(ctx)
	if err != nil {
		return frontdesk.State{}, err
	}
	if len(rooms) == 0 && len(ledger) == 0 && len(seed) > 0 {
		log.Info().Int("rooms", len(seed)).Msg("store is empty, seeding default rooms")
		if err := store.Save(ctx, seed, nil); err != nil {
			return frontdesk.State{}, err
		}
		rooms = seed
	}
	return frontdesk.NewState(rooms, ledger)
}
