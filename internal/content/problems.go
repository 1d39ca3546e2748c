package content

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	// MinDifficulty and MaxDifficulty bound the difficulty scale.
	MinDifficulty = 1
	MaxDifficulty = 5

	maxTitleLen = 200
)

// ProblemDraft carries the owner-editable fields for create and update.
type ProblemDraft struct {
	Title      string
	Body       string
	Subject    string
	Difficulty int
	Visibility Visibility
	ShareKey   string
	TagIDs     []string
}

// PublishInput carries the optional overrides accepted by Publish.
type PublishInput struct {
	// Subject overrides the stored subject when non-empty.
	Subject string
	// TagIDs, when non-nil, replaces the draft's tag set as the base of
	// the merge. New tag names are resolved on top of the base.
	TagIDs  []string
	NewTags []string
}

// ProblemService drives the problem lifecycle: draft → published →
// disabled, with the visibility policy checked before every mutation
// and tag resolution folded into publish.
type ProblemService struct {
	problems ProblemRepo
	tags     *TagResolver
}

func NewProblemService(problems ProblemRepo, tags *TagResolver) *ProblemService {
	return &ProblemService{problems: problems, tags: tags}
}

// Create validates the draft and stores it with status draft. Unlisted
// drafts get a share key immediately so the share-key invariant holds
// from the first row.
func (s *ProblemService) Create(ctx context.Context, ownerID string, in ProblemDraft) (*Problem, error) {
	if ownerID == "" {
		return nil, Invalid("owner id is required")
	}
	if in.Visibility == "" {
		in.Visibility = VisibilityPrivate
	}
	if err := validateProblemDraft(in); err != nil {
		return nil, err
	}

	key, err := resolveShareKey(in.Visibility, in.ShareKey, "")
	if err != nil {
		return nil, Internal("generate share key", err)
	}

	now := time.Now().UTC()
	p := &Problem{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		Title:      strings.TrimSpace(in.Title),
		Body:       in.Body,
		Subject:    strings.TrimSpace(in.Subject),
		Difficulty: in.Difficulty,
		Status:     StatusDraft,
		Visibility: in.Visibility,
		ShareKey:   key,
		TagIDs:     dedupeIDs(in.TagIDs),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.problems.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns the problem when the requester may read it. Unreadable
// private and unlisted problems surface as not-found, never forbidden.
func (s *ProblemService) Get(ctx context.Context, requesterID, id string) (*Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Access().CanRead(requesterID) {
		return nil, NotFound("problem")
	}
	return p, nil
}

// GetByShareKey resolves an unlisted problem via its share key. Draft
// and disabled problems resolve as not-found.
func (s *ProblemService) GetByShareKey(ctx context.Context, key string) (*Problem, error) {
	if key == "" {
		return nil, NotFound("problem")
	}
	p, err := s.problems.GetByShareKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if !p.Access().ShareKeyReadable() {
		return nil, NotFound("problem")
	}
	return p, nil
}

// Update re-validates and persists the editable fields. Status and
// publishedAt are never touched here; they flow through from the
// existing row. Moving to unlisted issues a share key if none exists,
// moving away clears it.
func (s *ProblemService) Update(ctx context.Context, requesterID, id string, in ProblemDraft) (*Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Access().CanWrite(requesterID) {
		return nil, Forbidden("only the owner may edit a problem")
	}
	if in.Visibility == "" {
		in.Visibility = p.Visibility
	}
	if err := validateProblemDraft(in); err != nil {
		return nil, err
	}

	key, err := resolveShareKey(in.Visibility, in.ShareKey, p.ShareKey)
	if err != nil {
		return nil, Internal("generate share key", err)
	}

	p.Title = strings.TrimSpace(in.Title)
	p.Body = in.Body
	p.Subject = strings.TrimSpace(in.Subject)
	p.Difficulty = in.Difficulty
	p.Visibility = in.Visibility
	p.ShareKey = key
	p.UpdatedAt = time.Now().UTC()

	if err := s.problems.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Publish moves a draft to published, resolving the final tag set as
// the deduplicated union of the supplied (or existing) tag ids and the
// ids created for NewTags. Publishing an already-published problem is
// idempotent: the subject/tag update still applies but publishedAt is
// not reissued. Disabled problems cannot be republished.
func (s *ProblemService) Publish(ctx context.Context, requesterID, id string, in PublishInput) (*Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Access().CanWrite(requesterID) {
		return nil, Forbidden("only the owner may publish a problem")
	}
	if p.Status == StatusDisabled {
		return nil, Conflict("problem is disabled")
	}
	if strings.TrimSpace(p.Title) == "" {
		return nil, Conflict("cannot publish a problem without a title")
	}

	subject := p.Subject
	if s := strings.TrimSpace(in.Subject); s != "" {
		subject = s
	}

	base := in.TagIDs
	if base == nil {
		base = p.TagIDs
	}
	newIDs, err := s.tags.ResolveAll(ctx, subject, in.NewTags)
	if err != nil {
		return nil, err
	}
	final := dedupeIDs(append(append([]string{}, base...), newIDs...))

	if p.Status != StatusPublished {
		now := time.Now().UTC()
		p.Status = StatusPublished
		p.PublishedAt = &now
	}
	p.Subject = subject
	p.TagIDs = final
	p.UpdatedAt = time.Now().UTC()

	if err := s.problems.Publish(ctx, p, final); err != nil {
		return nil, err
	}
	return p, nil
}

// Disable moves a published problem to disabled. The owner or an admin
// may disable; drafts are rejected (they are deleted, not disabled) and
// disabling an already-disabled problem is a no-op returning the
// current state. Disabled is terminal — there is no re-enable path.
func (s *ProblemService) Disable(ctx context.Context, requesterID, id string, asAdmin bool) (*Problem, error) {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asAdmin && !p.Access().CanWrite(requesterID) {
		return nil, Forbidden("only the owner or an admin may disable a problem")
	}
	switch p.Status {
	case StatusDraft:
		return nil, Conflict("draft problems are deleted, not disabled")
	case StatusDisabled:
		return p, nil
	}
	if err := s.problems.SetStatus(ctx, id, StatusDisabled); err != nil {
		return nil, err
	}
	p.Status = StatusDisabled
	return p, nil
}

// DeleteDraft soft-deletes a problem that is still a draft.
func (s *ProblemService) DeleteDraft(ctx context.Context, requesterID, id string) error {
	p, err := s.problems.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.Access().CanWrite(requesterID) {
		return Forbidden("only the owner may delete a draft")
	}
	if p.Status != StatusDraft {
		return Conflict("only draft problems can be deleted")
	}
	return s.problems.SoftDelete(ctx, id)
}

// RecordView bumps the view counter. Callers skip owner self-views.
func (s *ProblemService) RecordView(ctx context.Context, id string) error {
	return s.problems.AddView(ctx, id)
}

// ListPublic returns live public problems, newest first.
func (s *ProblemService) ListPublic(ctx context.Context, subject string, page, pageSize int) ([]*Problem, int, error) {
	limit, offset := pageBounds(page, pageSize)
	return s.problems.ListPublic(ctx, subject, limit, offset)
}

func validateProblemDraft(in ProblemDraft) error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return Invalid("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return Invalid("title exceeds %d characters", maxTitleLen)
	}
	if strings.TrimSpace(in.Body) == "" {
		return Invalid("body is required")
	}
	if in.Difficulty < MinDifficulty || in.Difficulty > MaxDifficulty {
		return Invalid("difficulty must be between %d and %d", MinDifficulty, MaxDifficulty)
	}
	if !ValidVisibility(in.Visibility) {
		return Invalid("visibility must be one of: public, unlisted, private")
	}
	return nil
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// pageBounds normalizes 1-based page/pageSize into limit/offset.
func pageBounds(page, pageSize int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return pageSize, (page - 1) * pageSize
}
