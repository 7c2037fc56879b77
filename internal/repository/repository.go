// Package repository implements the data access layer for the application.
package repository

import (
	"errors"

	"meetup/internal/models"

	"gorm.io/gorm"
)

// notFoundOr maps a missing row to a NOT_FOUND AppError and passes anything
// else through untouched.
func notFoundOr(err error, resource string, id any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}

func activeOnly(db *gorm.DB, table string) *gorm.DB {
	return db.Where(table+".is_active = ?", true)
}
