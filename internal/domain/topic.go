package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Topic archetypes
const (
	ArchetypeRegular        = "regular"
	ArchetypePrivateMessage = "private_message"
)

// StringList is a JSON-encoded list of strings stored in a single column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Topic is the parent thread metadata. Topic field changes carry no version
// counter of their own; they fold into the post's revision.
type Topic struct {
	ID           uint64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Title        string     `gorm:"column:title;type:varchar(255)" json:"title"`
	CategoryID   uint64     `gorm:"column:category_id;index" json:"category_id"`
	Tags         StringList `gorm:"column:tags;type:json" json:"tags"`
	Archetype    string     `gorm:"column:archetype;type:varchar(30);default:'regular'" json:"archetype"`
	FeaturedLink string     `gorm:"column:featured_link;type:varchar(500)" json:"featured_link"`
	SlowMode     bool       `gorm:"column:slow_mode;default:false" json:"slow_mode"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Topic) TableName() string { return "topics" }

// IsPrivateMessage reports whether the topic is a private message thread
func (t *Topic) IsPrivateMessage() bool {
	return t.Archetype == ArchetypePrivateMessage
}
