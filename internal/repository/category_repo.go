package repository

import (
	"errors"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"gorm.io/gorm"
)

// CategoryRepository category data access
type CategoryRepository interface {
	FindByID(id uint64) (*domain.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindByID(id uint64) (*domain.Category, error) {
	var category domain.Category
	err := r.db.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
