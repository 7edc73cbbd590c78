package repository

import (
	"errors"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"gorm.io/gorm"
)

// RevisionRepository revision history data access
type RevisionRepository interface {
	WithTx(tx *gorm.DB) RevisionRepository
	Create(revision *domain.Revision) error
	Save(revision *domain.Revision) error
	Delete(postID uint64, version uint) error
	FindByPostIDAndVersion(postID uint64, version uint) (*domain.Revision, error)
	// ListByPostID returns revisions newest-first. Hidden revisions are
	// excluded unless includeHidden is set.
	ListByPostID(postID uint64, includeHidden bool) ([]*domain.Revision, error)
}

type revisionRepository struct {
	db *gorm.DB
}

// NewRevisionRepository creates a new RevisionRepository
func NewRevisionRepository(db *gorm.DB) RevisionRepository {
	return &revisionRepository{db: db}
}

func (r *revisionRepository) WithTx(tx *gorm.DB) RevisionRepository {
	if tx == nil {
		return r
	}
	return &revisionRepository{db: tx}
}

func (r *revisionRepository) Create(revision *domain.Revision) error {
	return r.db.Create(revision).Error
}

func (r *revisionRepository) Save(revision *domain.Revision) error {
	return r.db.Save(revision).Error
}

func (r *revisionRepository) Delete(postID uint64, version uint) error {
	return r.db.Where("post_id = ? AND version = ?", postID, version).
		Delete(&domain.Revision{}).Error
}

func (r *revisionRepository) FindByPostIDAndVersion(postID uint64, version uint) (*domain.Revision, error) {
	var revision domain.Revision
	err := r.db.Where("post_id = ? AND version = ?", postID, version).First(&revision).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrRevisionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &revision, nil
}

func (r *revisionRepository) ListByPostID(postID uint64, includeHidden bool) ([]*domain.Revision, error) {
	query := r.db.Where("post_id = ?", postID)
	if !includeHidden {
		query = query.Where("hidden = ?", false)
	}
	var revisions []*domain.Revision
	err := query.Order("version DESC").Find(&revisions).Error
	return revisions, err
}
