package service

import (
	"context"
	"database/sql"
	"log"

	"github.com/google/uuid"
	"github.com/pageza/nutriplan/backend/internal/ordering"
	"gorm.io/gorm"
)

// MoveResult is the sibling order after a drag-and-drop move. Moved is false
// when the move was a no-op and nothing was written.
type MoveResult struct {
	Order []uuid.UUID `json:"order"`
	Moved bool        `json:"moved"`
}

// siblings describes one persisted sibling group.
type siblings struct {
	action string
	model  interface{}
	load   func(db *gorm.DB) ([]uuid.UUID, error)
}

// reorder replaces the group's order with ids, which must be a permutation of
// the current members.
func reorder(ctx context.Context, db *gorm.DB, group siblings, ids []uuid.UUID) ([]uuid.UUID, error) {
	current, err := group.load(db.WithContext(ctx))
	if err != nil {
		return nil, storageErr(group.action, err)
	}
	if !ordering.IsPermutation(current, ids) {
		return nil, &ReorderError{
			Err:   invalid("ids", "must list every item of the group exactly once"),
			Order: current,
		}
	}
	return commitOrder(ctx, db, group, ids)
}

// move applies a single drag-and-drop step inside source. A target scope other
// than source leaves everything as it is.
func move(ctx context.Context, db *gorm.DB, group siblings, source, target ordering.Scope, active, over uuid.UUID) (*MoveResult, error) {
	current, err := group.load(db.WithContext(ctx))
	if err != nil {
		return nil, storageErr(group.action, err)
	}
	next, moved := ordering.MoveInScope(current, source, target, active, over)
	if !moved {
		return &MoveResult{Order: current}, nil
	}
	order, err := commitOrder(ctx, db, group, next)
	if err != nil {
		return nil, err
	}
	return &MoveResult{Order: order, Moved: true}, nil
}

// commitOrder writes order_index = position for every id in one transaction.
// On failure the authoritative order is read back into the ReorderError.
func commitOrder(ctx context.Context, db *gorm.DB, group siblings, ids []uuid.UUID) ([]uuid.UUID, error) {
	indexes := ordering.Indexes(ids)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range ids {
			if err := tx.Model(group.model).Where("id = ?", id).Update("order_index", indexes[id]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		return ids, nil
	}

	cause := storageErr(group.action, err)
	authoritative, rerr := group.load(db.WithContext(ctx))
	if rerr != nil {
		log.Printf("[Ordering] could not re-read order after failed %s: %v", group.action, rerr)
		authoritative = nil
	}
	return nil, &ReorderError{Err: cause, Order: authoritative}
}

// nextOrderIndex is one past the largest order_index matching the condition.
func nextOrderIndex(tx *gorm.DB, model interface{}, query string, args ...interface{}) (int, error) {
	var max sql.NullInt64
	if err := tx.Model(model).Where(query, args...).Select("MAX(order_index)").Row().Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
