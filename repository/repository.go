package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound no row matched the lookup (or the owner filter).
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate a unique index rejected the write.
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps gorm errors onto the repository sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// owned restricts a query to one record of one user.
func owned(db *gorm.DB, id, userID uint) *gorm.DB {
	return db.Where("id = ? AND user_id = ?", id, userID)
}

// withOwner preloads the owner summary used by admin listings.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("User", func(tx *gorm.DB) *gorm.DB {
		return tx.Select("id", "name", "email")
	})
}
