package repository

import (
	"errors"

	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/domain"
	"gorm.io/gorm"
)

// TopicRepository topic data access
type TopicRepository interface {
	WithTx(tx *gorm.DB) TopicRepository
	FindByID(id uint64) (*domain.Topic, error)
	Save(topic *domain.Topic) error
}

type topicRepository struct {
	db *gorm.DB
}

// NewTopicRepository creates a new TopicRepository
func NewTopicRepository(db *gorm.DB) TopicRepository {
	return &topicRepository{db: db}
}

func (r *topicRepository) WithTx(tx *gorm.DB) TopicRepository {
	if tx == nil {
		return r
	}
	return &topicRepository{db: tx}
}

func (r *topicRepository) FindByID(id uint64) (*domain.Topic, error) {
	var topic domain.Topic
	err := r.db.First(&topic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrTopicNotFound
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) Save(topic *domain.Topic) error {
	return r.db.Save(topic).Error
}
