package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Modifications maps a field name to its [old, new] value pair
type Modifications map[string][]interface{}

// Value implements driver.Valuer
func (m Modifications) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (m *Modifications) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into Modifications", value)
	}
}

// Old returns the recorded pre-change value for a field
func (m Modifications) Old(field string) (interface{}, bool) {
	pair, ok := m[field]
	if !ok || len(pair) != 2 {
		return nil, false
	}
	return pair[0], true
}

// New returns the recorded post-change value for a field
func (m Modifications) New(field string) (interface{}, bool) {
	pair, ok := m[field]
	if !ok || len(pair) != 2 {
		return nil, false
	}
	return pair[1], true
}

// Revision stores one historical version of a post. At most one row exists
// per (post_id, version); a row with empty modifications must not exist.
type Revision struct {
	ID            uint64        `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID        uint64        `gorm:"column:post_id;uniqueIndex:idx_post_version" json:"post_id"`
	Version       uint          `gorm:"column:version;uniqueIndex:idx_post_version" json:"version"`
	EditorID      uint64        `gorm:"column:editor_id;index" json:"editor_id"`
	Modifications Modifications `gorm:"column:modifications;type:json" json:"modifications"`
	Hidden        bool          `gorm:"column:hidden;default:false" json:"hidden"`
	CreatedAt     time.Time     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Revision) TableName() string { return "post_revisions" }
