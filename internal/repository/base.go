package repository

import (
	"context"

	"gorm.io/gorm"
)

// updateColumns persists the listed columns of model. updated_at is always written.
func updateColumns(ctx context.Context, db *gorm.DB, model interface{}, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	cols := append([]string{"updated_at"}, columns...)
	return db.WithContext(ctx).Model(model).Select(cols).Updates(model).Error
}

// deleteByID removes the row with id, returning gorm.ErrRecordNotFound when nothing matched.
func deleteByID(ctx context.Context, db *gorm.DB, model interface{}, id uint) error {
	res := db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
