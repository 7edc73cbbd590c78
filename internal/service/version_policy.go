package service

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/damoang/angple-revisions/internal/cache"
	"github.com/damoang/angple-revisions/internal/config"
	"github.com/damoang/angple-revisions/internal/domain"
	"github.com/damoang/angple-revisions/internal/repository"
)

// Decision is the outcome of the new-version-vs-amend heuristic
type Decision int

const (
	// DecisionAmend folds the edit into the current version's revision
	DecisionAmend Decision = iota
	// DecisionNewVersion bumps the version counters and opens a fresh revision
	DecisionNewVersion
)

func (d Decision) String() string {
	if d == DecisionNewVersion {
		return "new_version"
	}
	return "amend"
}

// VersionDecisionPolicy decides whether one edit attempt starts a new version
// or amends the current one
type VersionDecisionPolicy struct {
	originals cache.OriginalStore
	flags     repository.FlagRepository
	guardian  Guardian
	diffSize  func(before, after string) int
	cfg       config.RevisionConfig
}

// NewVersionDecisionPolicy creates the policy with the default diff estimator
func NewVersionDecisionPolicy(
	originals cache.OriginalStore,
	flags repository.FlagRepository,
	guardian Guardian,
	cfg config.RevisionConfig,
) *VersionDecisionPolicy {
	return &VersionDecisionPolicy{
		originals: originals,
		flags:     flags,
		guardian:  guardian,
		diffSize:  DiffSize,
		cfg:       cfg,
	}
}

// Decide evaluates the decision rules in order; the first match wins.
func (p *VersionDecisionPolicy) Decide(
	ctx context.Context,
	post *domain.Post,
	editor domain.Editor,
	fields RevisionFields,
	revisedAt time.Time,
	opts ReviseOptions,
) (Decision, error) {
	if opts.ForceNewVersion {
		return DecisionNewVersion, nil
	}
	// Skipped revisions mutate the post without history, so there is
	// nothing to version.
	if opts.SkipRevision {
		return DecisionAmend, nil
	}
	if fields.EditReason != nil && *fields.EditReason != post.EditReason {
		return DecisionNewVersion, nil
	}
	if fields.OwnerID != nil && *fields.OwnerID != post.OwnerID {
		return DecisionNewVersion, nil
	}
	if editor.ID != post.LastEditorID {
		return DecisionNewVersion, nil
	}
	return p.gracePeriodDecision(ctx, post, editor, fields, revisedAt)
}

// gracePeriodDecision returns Amend iff the edit qualifies for folding into
// the current version: recent enough, unflagged, and (when content changes)
// small enough relative to the chain baseline.
func (p *VersionDecisionPolicy) gracePeriodDecision(
	ctx context.Context,
	post *domain.Post,
	editor domain.Editor,
	fields RevisionFields,
	revisedAt time.Time,
) (Decision, error) {
	if revisedAt.Sub(post.LastVersionAt) > p.cfg.EditGracePeriod.Std() {
		return DecisionNewVersion, nil
	}

	flagged, err := p.flags.HasPendingFlag(post.ID)
	if err != nil {
		return DecisionNewVersion, err
	}
	if flagged {
		return DecisionNewVersion, nil
	}

	// Without a content change, elapsed time and flag state alone govern
	// eligibility.
	if fields.Content == nil {
		return DecisionAmend, nil
	}

	baseline := post.Content
	if original, found, err := p.originals.Get(ctx, post.ID, post.LastVersionAt); err != nil {
		return DecisionNewVersion, err
	} else if found {
		baseline = original.Content
	}

	maxDiff := p.cfg.MaxDiff
	if p.guardian.IsStaff(editor) || p.guardian.IsHighTrust(editor) {
		maxDiff = p.cfg.StaffMaxDiff
	}

	lengthDelta := utf8.RuneCountInString(baseline) - utf8.RuneCountInString(*fields.Content)
	if lengthDelta < 0 {
		lengthDelta = -lengthDelta
	}
	if lengthDelta > maxDiff {
		return DecisionNewVersion, nil
	}
	if p.diffSize(baseline, *fields.Content) > maxDiff {
		return DecisionNewVersion, nil
	}

	return DecisionAmend, nil
}
