package content

import "context"

// Engagement is the idempotent toggle-and-count coordinator, proven
// once and instantiated per kind (problem-favorite, problem-like,
// comment-like). The counter moves only when the edge store reports a
// real transition, so calling Add or Remove twice in a row is a no-op
// with a false changed flag, never an error and never a double count.
type Engagement struct {
	kind    string
	edges   EdgeStore
	counter Counter
	targets TargetResolver
}

func NewEngagement(kind string, edges EdgeStore, counter Counter, targets TargetResolver) *Engagement {
	return &Engagement{kind: kind, edges: edges, counter: counter, targets: targets}
}

// Kind names the engagement instance ("favorite", "like", ...).
func (e *Engagement) Kind() string { return e.kind }

// Add activates the (user, target) edge and increments the counter on a
// 0→1 transition. The target must exist and be readable by the user;
// unreadable targets resolve as not-found.
func (e *Engagement) Add(ctx context.Context, userID, targetID string) (bool, error) {
	if userID == "" || targetID == "" {
		return false, Invalid("user id and target id are required")
	}
	t, err := e.targets.ResolveTarget(ctx, targetID)
	if err != nil {
		return false, err
	}
	if !t.Access.CanRead(userID) {
		return false, NotFound(t.Kind)
	}

	changed, err := e.edges.Activate(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := e.counter.Incr(ctx, targetID); err != nil {
		return false, err
	}
	return true, nil
}

// Remove deactivates the edge and decrements the counter on a 1→0
// transition. No access check: users may always retract their own
// engagement even when the target has since gone private or disabled,
// so clients with stale state can still unwind.
func (e *Engagement) Remove(ctx context.Context, userID, targetID string) (bool, error) {
	if userID == "" || targetID == "" {
		return false, Invalid("user id and target id are required")
	}
	changed, err := e.edges.Deactivate(ctx, userID, targetID)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := e.counter.Decr(ctx, targetID); err != nil {
		return false, err
	}
	return true, nil
}

// List returns the user's engaged targets by activation time
// descending, joined against current summaries. Targets the user can no
// longer read (or that no longer resolve) are dropped: the list
// reflects current visibility, not historical.
func (e *Engagement) List(ctx context.Context, userID string, page, pageSize int) ([]*Target, error) {
	if userID == "" {
		return nil, Invalid("user id is required")
	}
	limit, offset := pageBounds(page, pageSize)
	ids, err := e.edges.ListTargetIDs(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	out := make([]*Target, 0, len(ids))
	for _, id := range ids {
		t, err := e.targets.ResolveTarget(ctx, id)
		if err != nil {
			if IsKind(err, KindNotFound) {
				continue
			}
			return nil, err
		}
		if !t.Access.CanRead(userID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// problemTargets adapts a ProblemRepo into a TargetResolver.
type problemTargets struct {
	problems ProblemRepo
}

// NewProblemTargets returns the TargetResolver for problem engagement.
func NewProblemTargets(problems ProblemRepo) TargetResolver {
	return problemTargets{problems: problems}
}

func (r problemTargets) ResolveTarget(ctx context.Context, id string) (*Target, error) {
	p, err := r.problems.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Target{ID: p.ID, Kind: "problem", Title: p.Title, Access: p.Access()}, nil
}

// commentTargets adapts comment and problem repos into a
// TargetResolver: a comment inherits the access rules of the problem it
// belongs to.
type commentTargets struct {
	comments CommentRepo
	problems ProblemRepo
}

// NewCommentTargets returns the TargetResolver for comment engagement.
func NewCommentTargets(comments CommentRepo, problems ProblemRepo) TargetResolver {
	return commentTargets{comments: comments, problems: problems}
}

func (r commentTargets) ResolveTarget(ctx context.Context, id string) (*Target, error) {
	c, err := r.comments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Deleted {
		return nil, NotFound("comment")
	}
	p, err := r.problems.GetByID(ctx, c.ProblemID)
	if err != nil {
		return nil, err
	}
	return &Target{ID: c.ID, Kind: "comment", Title: snippet(c.Body, 80), Access: p.Access()}, nil
}

func snippet(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
