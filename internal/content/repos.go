package content

import "context"

// The core persists through these narrow interfaces; the sqlx
// implementations live in internal/store. Lookup methods return a
// not-found Error (KindNotFound) when the entity is absent; mutations
// that hit a uniqueness constraint return a conflict Error.

// ProblemRepo is the persistence contract for problems.
type ProblemRepo interface {
	Create(ctx context.Context, p *Problem) error
	// GetByID excludes soft-deleted rows and fills TagIDs.
	GetByID(ctx context.Context, id string) (*Problem, error)
	GetByShareKey(ctx context.Context, key string) (*Problem, error)
	// Update persists the editable fields (title, body, subject,
	// difficulty, visibility, share key). Status and published_at flow
	// through unchanged from the existing row.
	Update(ctx context.Context, p *Problem) error
	// Publish applies status, published_at, subject, and the final tag
	// set in a single transaction.
	Publish(ctx context.Context, p *Problem, tagIDs []string) error
	SetStatus(ctx context.Context, id string, status Status) error
	SoftDelete(ctx context.Context, id string) error
	AddView(ctx context.Context, id string) error
	// ListPublic returns live public problems, newest first, optionally
	// filtered by subject, plus the total match count.
	ListPublic(ctx context.Context, subject string, limit, offset int) ([]*Problem, int, error)
}

// CollectionRepo is the persistence contract for collections.
type CollectionRepo interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id string) (*Collection, error)
	GetByShareKey(ctx context.Context, key string) (*Collection, error)
	Update(ctx context.Context, c *Collection) error
	SetStatus(ctx context.Context, id string, status CollectionStatus) error
	// AddProblem returns a conflict Error when the problem is already a
	// member.
	AddProblem(ctx context.Context, collectionID, problemID string) error
	RemoveProblem(ctx context.Context, collectionID, problemID string) error
	// ListProblems returns member problems in curation order.
	ListProblems(ctx context.Context, collectionID string, limit, offset int) ([]*Problem, error)
}

// TagRepo is the persistence contract for tags.
type TagRepo interface {
	FindBySubjectAndName(ctx context.Context, subject, name string) (*Tag, error)
	// Create returns a conflict Error when the (subject, name) pair
	// already exists; the resolver re-fetches on that signal.
	Create(ctx context.Context, t *Tag) error
	FindByIDs(ctx context.Context, ids []string) ([]*Tag, error)
	ListBySubject(ctx context.Context, subject string) ([]*Tag, error)
}

// EdgeStore persists the per-user membership records behind one
// engagement kind. Activate and Deactivate report whether the call
// actually flipped the edge — the coordinator mutates the counter only
// on a reported transition, which is what makes repeats safe.
type EdgeStore interface {
	Activate(ctx context.Context, userID, targetID string) (changed bool, err error)
	Deactivate(ctx context.Context, userID, targetID string) (changed bool, err error)
	// ListTargetIDs returns target ids ordered by activation time
	// descending.
	ListTargetIDs(ctx context.Context, userID string, limit, offset int) ([]string, error)
}

// Counter mutates one denormalized counter column. Decr floors at zero.
type Counter interface {
	Incr(ctx context.Context, targetID string) error
	Decr(ctx context.Context, targetID string) error
}

// Target is the engagement coordinator's summary view of a likeable or
// favoritable entity.
type Target struct {
	ID     string
	Kind   string
	Title  string
	Access Access
}

// TargetResolver loads the Target behind an id for access checks and
// list joins.
type TargetResolver interface {
	ResolveTarget(ctx context.Context, id string) (*Target, error)
}

// CommentRepo is the persistence contract for comments.
type CommentRepo interface {
	Create(ctx context.Context, c *Comment) error
	// GetByID includes soft-deleted comments so reply chains under a
	// deleted parent stay resolvable.
	GetByID(ctx context.Context, id string) (*Comment, error)
	ListTopLevel(ctx context.Context, problemID string, limit, offset int) ([]*Comment, error)
	ListReplies(ctx context.Context, parentID string, limit, offset int) ([]*Comment, error)
	SoftDelete(ctx context.Context, id string) error
}
