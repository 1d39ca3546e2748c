package content

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// maxTagNameLen bounds tag names in runes.
const maxTagNameLen = 50

// TagResolver maps (subject, name) pairs to stable tag ids, creating
// missing tags lazily. Safe to call repeatedly with the same pair
// during a publish batch: existence is checked before insert, and the
// unique index on (subject, name) backstops the remaining race.
type TagResolver struct {
	tags TagRepo
}

func NewTagResolver(tags TagRepo) *TagResolver {
	return &TagResolver{tags: tags}
}

// Resolve returns the tag for (subject, trimmed name), creating it if
// absent.
func (r *TagResolver) Resolve(ctx context.Context, subject, name string) (*Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, Invalid("tag name must not be blank")
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return nil, Invalid("tag name exceeds %d characters", maxTagNameLen)
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, Invalid("tag subject must not be blank")
	}

	existing, err := r.tags.FindBySubjectAndName(ctx, subject, name)
	if err == nil {
		return existing, nil
	}
	if !IsKind(err, KindNotFound) {
		return nil, err
	}

	t := &Tag{
		ID:        uuid.New().String(),
		Subject:   subject,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.tags.Create(ctx, t); err != nil {
		// Lost the race to a concurrent publish; the winner's row is
		// the tag we wanted.
		if IsKind(err, KindConflict) {
			return r.tags.FindBySubjectAndName(ctx, subject, name)
		}
		return nil, err
	}
	return t, nil
}

// ResolveAll resolves every name under subject and returns the ids, in
// input order.
func (r *TagResolver) ResolveAll(ctx context.Context, subject string, names []string) ([]string, error) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		t, err := r.Resolve(ctx, subject, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}

// ListBySubject returns all tags under a subject.
func (r *TagResolver) ListBySubject(ctx context.Context, subject string) ([]*Tag, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, Invalid("subject must not be blank")
	}
	return r.tags.ListBySubject(ctx, subject)
}

// dedupeIDs removes duplicates preserving first-seen order.
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
