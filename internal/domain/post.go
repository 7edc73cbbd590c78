package domain

import "time"

// Post kinds
const (
	PostKindRegular         = "regular"
	PostKindModeratorAction = "moderator_action"
	PostKindSmallAction     = "small_action"
)

// Post is the collaboratively edited document. Version counters move only
// through the revision engine; PublicVersion may lag Version when some
// revisions are hidden.
type Post struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TopicID       uint64    `gorm:"column:topic_id;index" json:"topic_id"`
	OwnerID       uint64    `gorm:"column:owner_id;index" json:"owner_id"`
	Content       string    `gorm:"column:content;type:mediumtext" json:"content"`
	CookedContent string    `gorm:"column:cooked_content;type:mediumtext" json:"cooked_content"`
	EditReason    string    `gorm:"column:edit_reason;type:varchar(255)" json:"edit_reason"`
	Kind          string    `gorm:"column:kind;type:varchar(20);default:'regular'" json:"kind"`
	Version       uint      `gorm:"column:version;default:1" json:"version"`
	PublicVersion uint      `gorm:"column:public_version;default:1" json:"public_version"`
	LastEditorID  uint64    `gorm:"column:last_editor_id" json:"last_editor_id"`
	LastVersionAt time.Time `gorm:"column:last_version_at" json:"last_version_at"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Post) TableName() string { return "posts" }
