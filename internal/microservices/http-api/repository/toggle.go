package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrAlreadyExists is returned when an insert hit an existing unique key.
var ErrAlreadyExists = errors.New("record already exists")

// counterColumn names a denormalized counter kept equal to the number of edge rows.
type counterColumn struct {
	model  any
	id     int64
	column string
}

// toggleEdge flips one edge row inside tx and returns whether the edge is
// present afterwards together with the counter value read back in the same
// transaction. The edge's composite primary key makes the insert a no-op when
// a concurrent request already created it, so the counter only moves by the
// rows this call actually changed.
func toggleEdge(tx *gorm.DB, edge any, counter *counterColumn) (bool, int64, error) {
	var delta int64
	attached := false

	res := tx.Delete(edge)
	if res.Error != nil {
		return false, 0, res.Error
	}
	if res.RowsAffected > 0 {
		delta = -res.RowsAffected
	} else {
		res = tx.Clauses(clause.OnConflict{DoNothing: true}).Create(edge)
		if res.Error != nil {
			return false, 0, res.Error
		}
		attached = true
		delta = res.RowsAffected
	}

	if counter == nil {
		return attached, 0, nil
	}

	if delta != 0 {
		err := tx.Model(counter.model).
			Where("id = ?", counter.id).
			UpdateColumn(counter.column, gorm.Expr(counter.column+" + ?", delta)).Error
		if err != nil {
			return false, 0, err
		}
	}

	var value int64
	err := tx.Model(counter.model).
		Select(counter.column).
		Where("id = ?", counter.id).
		Scan(&value).Error
	if err != nil {
		return false, 0, err
	}
	return attached, value, nil
}

// edgeExists reports whether a row matching the edge's key is present.
func edgeExists(db *gorm.DB, model any, conds map[string]any) (bool, error) {
	var count int64
	if err := db.Model(model).Where(conds).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
