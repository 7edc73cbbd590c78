package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/damoang/angple-revisions/internal/cache"
	"github.com/damoang/angple-revisions/internal/common"
	"github.com/damoang/angple-revisions/internal/config"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/plugin"
	"github.com/damoang/angple-revisions/internal/ratelimit"
	"github.com/damoang/angple-revisions/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// TxManager runs a unit of work in one database transaction. *gorm.DB
// satisfies it.
type TxManager interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}

// ReviseResult is the structured outcome of a committed revise call
type ReviseResult struct {
	PostID          uint64                 `json:"post_id"`
	Version         uint                   `json:"version"`
	PublicVersion   uint                   `json:"public_version"`
	NewVersion      bool                   `json:"new_version"`
	Hidden          bool                   `json:"hidden"`
	RevisionDeleted bool                   `json:"revision_deleted"`
	FieldDiff       map[string]FieldChange `json:"field_diff"`
	TopicDiff       map[string]FieldChange `json:"topic_diff"`
}

// RevisionEngine orchestrates one revise call: decide new-vs-amend, mutate
// the post and topic atomically, persist the merged revision diff, then fan
// out post-commit hooks.
type RevisionEngine struct {
	db        TxManager
	posts     repository.PostRepository
	topics    repository.TopicRepository
	revisions repository.RevisionRepository
	policy    *VersionDecisionPolicy
	store     *RevisionStore
	registry  *TopicFieldRegistry
	originals cache.OriginalStore
	limiter   ratelimit.Limiter
	guardian  Guardian
	hooks     *plugin.HookManager
	cfg       config.RevisionConfig
	log       zerolog.Logger
}

// NewRevisionEngine wires the engine from its collaborators
func NewRevisionEngine(
	db TxManager,
	posts repository.PostRepository,
	topics repository.TopicRepository,
	revisions repository.RevisionRepository,
	policy *VersionDecisionPolicy,
	store *RevisionStore,
	registry *TopicFieldRegistry,
	originals cache.OriginalStore,
	limiter ratelimit.Limiter,
	guardian Guardian,
	hooks *plugin.HookManager,
	cfg config.RevisionConfig,
	log zerolog.Logger,
) *RevisionEngine {
	return &RevisionEngine{
		db:        db,
		posts:     posts,
		topics:    topics,
		revisions: revisions,
		policy:    policy,
		store:     store,
		registry:  registry,
		originals: originals,
		limiter:   limiter,
		guardian:  guardian,
		hooks:     hooks,
		cfg:       cfg,
		log:       log,
	}
}

// Revise applies one set of proposed edits. Validation failures and
// permission vetoes come back as *common.ValidationErrors or the sentinel
// errors in internal/common with nothing mutated; storage failures roll the
// whole call back.
func (e *RevisionEngine) Revise(
	ctx context.Context,
	postID uint64,
	editor domain.Editor,
	fields RevisionFields,
	opts ReviseOptions,
) (*ReviseResult, error) {
	fields.normalize()

	revisedAt := opts.RevisedAt
	if revisedAt.IsZero() {
		revisedAt = time.Now()
	}

	if !opts.SkipRateLimit && e.limiter != nil {
		if err := e.limiter.Check(ctx, editor.ID); err != nil {
			revisionRejectionsTotal.WithLabelValues("rate_limited").Inc()
			return nil, err
		}
	}

	var (
		result      *ReviseResult
		events      []PendingEvent
		newBaseline *cache.OriginalContent
		baselineAt  time.Time
	)

	err := e.db.Transaction(func(tx *gorm.DB) error {
		post, err := e.posts.WithTx(tx).FindByIDForUpdate(postID)
		if err != nil {
			return err
		}
		topic, err := e.topics.WithTx(tx).FindByID(post.TopicID)
		if err != nil {
			return err
		}

		decision, err := e.policy.Decide(ctx, post, editor, fields, revisedAt, opts)
		if err != nil {
			return err
		}
		isNew := decision == DecisionNewVersion

		if topic.SlowMode && isNew && !e.guardian.IsStaff(editor) {
			return common.ErrSlowMode
		}

		chainBaseAt := post.LastVersionAt

		fieldDiff := applyPostFields(post, fields)

		cs := NewChangeSet(topic, editor)
		e.registry.Apply(cs, fields.TopicFields())
		if cs.Errored() {
			return cs.ValidationErrors()
		}

		if len(fieldDiff) == 0 && len(cs.Diff()) == 0 {
			return common.ErrNoChanges
		}

		if isNew && !opts.SkipRevision {
			post.Version++
			post.LastVersionAt = revisedAt
		}
		post.LastEditorID = editor.ID

		var outcome *PersistOutcome
		if !opts.SkipRevision {
			combined := mergeDiffs(fieldDiff, cs.Diff())
			outcome, err = e.store.Persist(ctx, e.revisions.WithTx(tx), post, combined, isNew, editor, chainBaseAt)
			if err != nil {
				return err
			}
			if isNew && !outcome.Hidden {
				post.PublicVersion++
			}
			if outcome.Deleted {
				// The amend chain netted out to nothing; reclaim the
				// version slot.
				post.Version--
				if !outcome.Hidden && post.PublicVersion > 0 {
					post.PublicVersion--
				}
			}
		}

		if err := e.posts.WithTx(tx).Save(post); err != nil {
			return err
		}
		if err := e.topics.WithTx(tx).Save(topic); err != nil {
			return err
		}

		if isNew && !opts.SkipRevision {
			// The new grace window measures amends against the content this
			// version just established.
			newBaseline = &cache.OriginalContent{Content: post.Content, CookedContent: post.CookedContent}
			baselineAt = post.LastVersionAt
		}

		events = cs.Events()
		result = &ReviseResult{
			PostID:          post.ID,
			Version:         post.Version,
			PublicVersion:   post.PublicVersion,
			NewVersion:      isNew,
			Hidden:          outcome != nil && outcome.Hidden,
			RevisionDeleted: outcome != nil && outcome.Deleted,
			FieldDiff:       fieldDiff,
			TopicDiff:       cs.Diff(),
		}
		return nil
	})
	if err != nil {
		e.countRejection(err)
		return nil, err
	}

	// Everything below is post-commit: failures here are isolated and never
	// undo the edit.
	if newBaseline != nil {
		if err := e.originals.Set(ctx, result.PostID, baselineAt, *newBaseline); err != nil {
			e.log.Warn().Err(err).Uint64("post_id", result.PostID).
				Msg("failed to cache pre-edit baseline")
		}
	}

	e.dispatchHooks(result, editor, events)

	revisionsTotal.WithLabelValues(decisionLabel(result.NewVersion)).Inc()
	if result.RevisionDeleted {
		revisionCompactionsTotal.Inc()
	}
	if result.Hidden && result.NewVersion {
		hiddenRevisionsTotal.Inc()
	}

	e.log.Info().
		Uint64("post_id", result.PostID).
		Uint64("editor_id", editor.ID).
		Uint("version", result.Version).
		Bool("new_version", result.NewVersion).
		Msg("post revised")

	return result, nil
}

// dispatchHooks fans out the post-commit side effects. Each hook is isolated
// by the hook manager; one failing never blocks the others.
func (e *RevisionEngine) dispatchHooks(result *ReviseResult, editor domain.Editor, events []PendingEvent) {
	if e.hooks == nil {
		return
	}

	payload := map[string]interface{}{
		"event_id":       uuid.NewString(),
		"post_id":        result.PostID,
		"editor_id":      editor.ID,
		"field_diff":     result.FieldDiff,
		"topic_diff":     result.TopicDiff,
		"is_new_version": result.NewVersion,
	}

	e.hooks.Do(plugin.HookPostRevised, payload)

	// A hidden tag-only revision must not surface anywhere public: audit
	// only, no reindex, no notifications, no badges.
	if result.Hidden {
		return
	}

	if _, changed := result.FieldDiff[FieldContent]; changed {
		e.hooks.Do(plugin.HookPostRecook, map[string]interface{}{"post_id": result.PostID})
	}
	e.hooks.Do(plugin.HookPostIndex, payload)
	e.hooks.Do(plugin.HookPostBadge, payload)
	for _, event := range events {
		e.hooks.Do(event.Event, event.Payload)
	}
}

func (e *RevisionEngine) countRejection(err error) {
	var verrs *common.ValidationErrors
	switch {
	case errors.Is(err, common.ErrNoChanges):
		revisionRejectionsTotal.WithLabelValues("no_changes").Inc()
	case errors.Is(err, common.ErrSlowMode):
		revisionRejectionsTotal.WithLabelValues("slow_mode").Inc()
	case errors.As(err, &verrs):
		revisionRejectionsTotal.WithLabelValues("validation").Inc()
	case errors.Is(err, common.ErrPostNotFound), errors.Is(err, common.ErrTopicNotFound):
		revisionRejectionsTotal.WithLabelValues("not_found").Inc()
	default:
		revisionRejectionsTotal.WithLabelValues("storage").Inc()
	}
}

// applyPostFields writes the post-level fields in place and returns the diff
// of what actually changed
func applyPostFields(post *domain.Post, fields RevisionFields) map[string]FieldChange {
	diff := make(map[string]FieldChange)

	if fields.Content != nil && *fields.Content != post.Content {
		diff[FieldContent] = FieldChange{Old: post.Content, New: *fields.Content}
		post.Content = *fields.Content
	}
	if fields.CookedContent != nil && *fields.CookedContent != post.CookedContent {
		diff[FieldCookedContent] = FieldChange{Old: post.CookedContent, New: *fields.CookedContent}
		post.CookedContent = *fields.CookedContent
	}
	if fields.EditReason != nil && *fields.EditReason != post.EditReason {
		diff[FieldEditReason] = FieldChange{Old: post.EditReason, New: *fields.EditReason}
		post.EditReason = *fields.EditReason
	}
	if fields.OwnerID != nil && *fields.OwnerID != post.OwnerID {
		diff[FieldOwnerID] = FieldChange{Old: post.OwnerID, New: *fields.OwnerID}
		post.OwnerID = *fields.OwnerID
	}
	if fields.Kind != nil && *fields.Kind != post.Kind {
		diff[FieldKind] = FieldChange{Old: post.Kind, New: *fields.Kind}
		post.Kind = *fields.Kind
	}

	return diff
}

// mergeDiffs combines post-level and topic-level diffs; the key spaces are
// disjoint
func mergeDiffs(a, b map[string]FieldChange) map[string]FieldChange {
	merged := make(map[string]FieldChange, len(a)+len(b))
	for field, change := range a {
		merged[field] = change
	}
	for field, change := range b {
		merged[field] = change
	}
	return merged
}

func decisionLabel(newVersion bool) string {
	if newVersion {
		return "new_version"
	}
	return "amend"
}
