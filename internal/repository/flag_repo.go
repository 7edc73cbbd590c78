package repository

import (
	"github.com/damoang/angple-revisions/internal/domain"
	"gorm.io/gorm"
)

// FlagRepository moderation flag lookups
type FlagRepository interface {
	// HasPendingFlag reports whether the post has an unresolved flag
	HasPendingFlag(postID uint64) (bool, error)
}

type flagRepository struct {
	db *gorm.DB
}

// NewFlagRepository creates a new FlagRepository
func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) HasPendingFlag(postID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ModerationFlag{}).
		Where("post_id = ? AND status = ?", postID, domain.FlagStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
