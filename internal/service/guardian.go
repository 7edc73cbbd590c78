package service

import (
	"github.com/damoang/angple-revisions/internal/config"
	"github.com/damoang/angple-revisions/internal/domain"
)

// Guardian answers the authorization questions the engine asks. A false
// answer is a veto with a user-facing message, never an error.
type Guardian interface {
	CanPlaceLinksInTitle(editor domain.Editor) bool
	CanMoveToCategory(editor domain.Editor, categoryID uint64) bool
	CanTagTopics(editor domain.Editor) bool
	CanEditFeaturedLink(editor domain.Editor) bool
	IsStaff(editor domain.Editor) bool
	IsHighTrust(editor domain.Editor) bool
}

// Member level thresholds for editor capabilities
const (
	levelPlaceLinksInTitle = 3
	levelTagTopics         = 2
	levelMoveCategory      = 4
	levelFeaturedLink      = 4
)

// LevelGuardian grants capabilities by member level, the same scheme the
// board permission checks use elsewhere in the platform
type LevelGuardian struct {
	cfg config.RevisionConfig
}

// NewLevelGuardian creates a level-based Guardian
func NewLevelGuardian(cfg config.RevisionConfig) *LevelGuardian {
	return &LevelGuardian{cfg: cfg}
}

func (g *LevelGuardian) CanPlaceLinksInTitle(editor domain.Editor) bool {
	return editor.Level >= levelPlaceLinksInTitle
}

func (g *LevelGuardian) CanMoveToCategory(editor domain.Editor, _ uint64) bool {
	return editor.Level >= levelMoveCategory
}

func (g *LevelGuardian) CanTagTopics(editor domain.Editor) bool {
	return editor.Level >= levelTagTopics
}

func (g *LevelGuardian) CanEditFeaturedLink(editor domain.Editor) bool {
	return editor.Level >= levelFeaturedLink
}

func (g *LevelGuardian) IsStaff(editor domain.Editor) bool {
	return editor.Level >= g.cfg.StaffLevel
}

func (g *LevelGuardian) IsHighTrust(editor domain.Editor) bool {
	return editor.Level >= g.cfg.HighTrustLevel
}
