package models

import (
	"time"

	"gorm.io/gorm"
)

// Base carries the identity and bookkeeping columns shared by every table.
// It replaces gorm.Model so that deletion is tracked by the explicit
// soft-delete columns below instead of gorm.DeletedAt.
type Base struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) GetID() uint {
	return b.ID
}

// SoftDeleteModel adds the soft-delete markers. IsDeleted is true exactly
// when DeletedAt is non-nil.
type SoftDeleteModel struct {
	IsDeleted bool       `json:"is_deleted" gorm:"default:false;index"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

func (s *SoftDeleteModel) SoftDeleted() bool {
	return s.IsDeleted
}

func (s *SoftDeleteModel) markDeleted(at time.Time) {
	s.IsDeleted = true
	s.DeletedAt = &at
}

func (s *SoftDeleteModel) markRestored() {
	s.IsDeleted = false
	s.DeletedAt = nil
}

// SoftDeletable is implemented by every model that is hidden instead of
// erased. CascadeRules declares, statically per type, which dependents go
// down with the record.
type SoftDeletable interface {
	GetID() uint
	SoftDeleted() bool
	markDeleted(at time.Time)
	markRestored()
	CascadeRules() []CascadeRule
}

// CascadeRule is one "delete dependents with me" relationship. Fetch
// returns the active dependents currently pointing at the parent.
type CascadeRule struct {
	Fetch func(tx *gorm.DB, parentID uint) ([]SoftDeletable, error)
}

// Active restricts a query to non-deleted rows. Every default read path
// goes through this scope; listing deleted rows is an explicit admin
// operation.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// SoftDelete marks rec and every cascade dependent as deleted inside one
// transaction: either the whole subtree transitions or none of it does.
// Deleting an already-deleted record is a no-op and the original
// deleted_at is preserved.
func SoftDelete(db *gorm.DB, rec SoftDeletable) error {
	if rec.SoftDeleted() {
		return nil
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return softDelete(tx, rec)
	})
}

func softDelete(tx *gorm.DB, rec SoftDeletable) error {
	for _, rule := range rec.CascadeRules() {
		dependents, err := rule.Fetch(tx, rec.GetID())
		if err != nil {
			return err
		}
		// Each dependent goes through its own delete path, so a
		// multi-level cascade falls out of the recursion.
		for _, dependent := range dependents {
			if err := softDelete(tx, dependent); err != nil {
				return err
			}
		}
	}
	now := time.Now()
	rec.markDeleted(now)
	return tx.Save(rec).Error
}

// Restore revives only rec. Dependents that were cascade-deleted with it
// stay deleted; reviving them is a separate, explicit call.
func Restore(db *gorm.DB, rec SoftDeletable) error {
	if err := db.Model(rec).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	}).Error; err != nil {
		return err
	}
	rec.markRestored()
	return nil
}

// BulkRestore revives every row of model whose id is in ids with a single
// update, bypassing per-record cascade handling entirely.
func BulkRestore(db *gorm.DB, model interface{}, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return db.Model(model).Where("id IN ?", ids).Updates(map[string]interface{}{
		"is_deleted": false,
		"deleted_at": nil,
	}).Error
}
