package domain

import "time"

// Moderation flag statuses
const (
	FlagStatusPending   = "pending"
	FlagStatusResolved  = "resolved"
	FlagStatusDismissed = "dismissed"
)

// ModerationFlag is a report against a post. A pending flag disqualifies the
// post from grace-period amends.
type ModerationFlag struct {
	ID         uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	PostID     uint64    `gorm:"column:post_id;index" json:"post_id"`
	ReporterID uint64    `gorm:"column:reporter_id" json:"reporter_id"`
	Reason     string    `gorm:"column:reason;type:varchar(255)" json:"reason"`
	Status     string    `gorm:"column:status;type:enum('pending','resolved','dismissed');default:'pending'" json:"status"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ModerationFlag) TableName() string { return "moderation_flags" }
