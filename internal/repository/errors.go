package repository

import (
	"errors"
	"strings"

	"crypto-analyst-bot/lib/errs"

	"gorm.io/gorm"
)

// translate maps driver-level constraint errors onto the shared sentinel
// kinds so callers never branch on sqlite/postgres error text.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.ErrAlreadyExists
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return errs.ErrForeignKey
	}

	msg := err.Error()
	if strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value violates unique constraint") {
		return errs.ErrAlreadyExists
	}
	if strings.Contains(msg, "FOREIGN KEY constraint failed") || strings.Contains(msg, "violates foreign key constraint") {
		return errs.ErrForeignKey
	}

	return err
}
