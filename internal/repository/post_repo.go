package repository

import (
	"errors"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository post data access
type PostRepository interface {
	// WithTx returns a repository bound to the given transaction
	WithTx(tx *gorm.DB) PostRepository
	FindByID(id uint64) (*domain.Post, error)
	// FindByIDForUpdate loads the post under a row-level write lock,
	// serializing concurrent revisions of the same post.
	FindByIDForUpdate(id uint64) (*domain.Post, error)
	Save(post *domain.Post) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &postRepository{db: tx}
}

func (r *postRepository) FindByID(id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByIDForUpdate(id uint64) (*domain.Post, error) {
	var post domain.Post
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&post, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) Save(post *domain.Post) error {
	return r.db.Save(post).Error
}
