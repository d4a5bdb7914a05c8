package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/decentland/tribus/filter"

	"gorm.io/gorm"
)

// One row per saved snapshot. Older rows beyond the retention count are pruned on save.
type StateSnapshot struct {
	ID         uint   `gorm:"primarykey"`
	ContractID string `gorm:"index:idx_snapshot_contract_height"`
	Height     int64  `gorm:"index:idx_snapshot_contract_height"`
	State      []byte
	CreatedAt  time.Time
}

// Keeps a short history of snapshots in a SQL database (sqlite or postgres).
type GormStateStore struct {
	db         *gorm.DB
	contractID string
	// number of snapshots kept per contract; zero keeps all of them
	Retain int
}

var _ StateStore = (*GormStateStore)(nil)

func NewGormStateStore(db *gorm.DB, contractID string, retain int) (*GormStateStore, error) {
	if err := db.AutoMigrate(&StateSnapshot{}); err != nil {
		return nil, fmt.Errorf("migrating snapshot table: %w", err)
	}
	return &GormStateStore{
		db:         db,
		contractID: contractID,
		Retain:     retain,
	}, nil
}

func (s *GormStateStore) Load(ctx context.Context) (*Snapshot, error) {
	var row StateSnapshot
	err := s.db.WithContext(ctx).
		Where("contract_id = ?", s.contractID).
		Order("height desc").Order("id desc").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("reading state snapshot: %w", err)
	}
	st, err := filter.ParseState(row.State)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Height: row.Height, State: st}, nil
}

func (s *GormStateStore) Save(ctx context.Context, snap Snapshot) error {
	raw, err := json.Marshal(snap.State)
	if err != nil {
		return err
	}
	row := StateSnapshot{
		ContractID: s.contractID,
		Height:     snap.Height,
		State:      raw,
	}
	db := s.db.WithContext(ctx)
	if err := db.Create(&row).Error; err != nil {
		return fmt.Errorf("saving state snapshot: %w", err)
	}
	if s.Retain <= 0 {
		return nil
	}
	var keep []uint
	if err := db.Model(&StateSnapshot{}).
		Where("contract_id = ?", s.contractID).
		Order("id desc").Limit(s.Retain).
		Pluck("id", &keep).Error; err != nil {
		return fmt.Errorf("pruning state snapshots: %w", err)
	}
	return db.Where("contract_id = ? AND id NOT IN ?", s.contractID, keep).Delete(&StateSnapshot{}).Error
}

// Number of stored snapshots for this contract.
func (s *GormStateStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&StateSnapshot{}).Where("contract_id = ?", s.contractID).Count(&n).Error
	return n, err
}
