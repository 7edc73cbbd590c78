package plugin

// Post-commit hook events fired by the revision engine. Each receives the
// structured payload built in service.RevisionEngine; handlers must treat it
// as read-only.
const (
	// HookPostRevised audit trail of a completed revise call
	HookPostRevised = "post.revised"
	// HookPostRecook re-render of the post content
	HookPostRecook = "post.recook"
	// HookTopicTagsChanged tag-change notification fan-out
	HookTopicTagsChanged = "topic.tags_changed"
	// HookPostIndex search/word-count refresh
	HookPostIndex = "post.index"
	// HookPostBadge badge evaluation for the editor
	HookPostBadge = "post.badge"
)

// Logger minimal logging interface so the hook bus does not depend on a
// concrete logging library
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}
