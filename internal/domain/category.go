package domain

import "time"

// Category groups topics. MinTagCount > 0 makes it a tag-required category:
// a topic cannot move there unless it carries at least that many tags.
type Category struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(100)" json:"name"`
	Slug        string    `gorm:"column:slug;type:varchar(50);uniqueIndex" json:"slug"`
	MinTagCount int       `gorm:"column:min_tag_count;default:0" json:"min_tag_count"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Category) TableName() string { return "categories" }
