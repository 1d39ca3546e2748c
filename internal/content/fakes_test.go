package content_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/probank/probank/internal/content"
)

// In-memory fakes for the repository interfaces, used by the core
// tests. They mimic the store contracts: not-found and conflict come
// back as typed content errors, and edge activation reports whether the
// call actually flipped the edge.

type memProblems struct {
	mu   sync.Mutex
	rows map[string]*content.Problem
}

func newMemProblems() *memProblems {
	return &memProblems{rows: map[string]*content.Problem{}}
}

func cloneProblem(p *content.Problem) *content.Problem {
	cp := *p
	cp.TagIDs = append([]string(nil), p.TagIDs...)
	if p.PublishedAt != nil {
		t := *p.PublishedAt
		cp.PublishedAt = &t
	}
	return &cp
}

func (m *memProblems) Create(_ context.Context, p *content.Problem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[p.ID] = cloneProblem(p)
	return nil
}

func (m *memProblems) GetByID(_ context.Context, id string) (*content.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return nil, content.NotFound("problem")
	}
	return cloneProblem(p), nil
}

func (m *memProblems) GetByShareKey(_ context.Context, key string) (*content.Problem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.ShareKey == key {
			return cloneProblem(p), nil
		}
	}
	return nil, content.NotFound("problem")
}

// Update writes the editable fields only; status and published_at keep
// the stored values, matching the store contract.
func (m *memProblems) Update(_ context.Context, p *content.Problem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.rows[p.ID]
	if !ok {
		return content.NotFound("problem")
	}
	next := cloneProblem(p)
	next.Status = cur.Status
	next.PublishedAt = cur.PublishedAt
	next.TagIDs = cur.TagIDs
	m.rows[p.ID] = next
	return nil
}

func (m *memProblems) Publish(_ context.Context, p *content.Problem, tagIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[p.ID]; !ok {
		return content.NotFound("problem")
	}
	next := cloneProblem(p)
	next.TagIDs = append([]string(nil), tagIDs...)
	m.rows[p.ID] = next
	return nil
}

func (m *memProblems) SetStatus(_ context.Context, id string, status content.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return content.NotFound("problem")
	}
	p.Status = status
	return nil
}

func (m *memProblems) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return content.NotFound("problem")
	}
	delete(m.rows, id)
	return nil
}

func (m *memProblems) AddView(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[id]
	if !ok {
		return content.NotFound("problem")
	}
	p.ViewCount++
	return nil
}

func (m *memProblems) ListPublic(_ context.Context, subject string, limit, offset int) ([]*content.Problem, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Problem
	for _, p := range m.rows {
		if p.Status != content.StatusPublished || p.Visibility != content.VisibilityPublic {
			continue
		}
		if subject != "" && p.Subject != subject {
			continue
		}
		out = append(out, cloneProblem(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := len(out)
	if offset >= len(out) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], total, nil
}

type memTags struct {
	mu   sync.Mutex
	rows map[string]*content.Tag // by id
}

func newMemTags() *memTags { return &memTags{rows: map[string]*content.Tag{}} }

func (m *memTags) FindBySubjectAndName(_ context.Context, subject, name string) (*content.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.Subject == subject && t.Name == name {
			cp := *t
			return &cp, nil
		}
	}
	return nil, content.NotFound("tag")
}

func (m *memTags) Create(_ context.Context, t *content.Tag) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.rows {
		if existing.Subject == t.Subject && existing.Name == t.Name {
			return content.Conflict("tag already exists")
		}
	}
	cp := *t
	m.rows[t.ID] = &cp
	return nil
}

func (m *memTags) FindByIDs(_ context.Context, ids []string) ([]*content.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Tag
	for _, id := range ids {
		if t, ok := m.rows[id]; ok {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memTags) ListBySubject(_ context.Context, subject string) ([]*content.Tag, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Tag
	for _, t := range m.rows {
		if t.Subject == subject {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memComments struct {
	mu   sync.Mutex
	rows map[string]*content.Comment
}

func newMemComments() *memComments {
	return &memComments{rows: map[string]*content.Comment{}}
}

func (m *memComments) Create(_ context.Context, c *content.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.rows[c.ID] = &cp
	return nil
}

func (m *memComments) GetByID(_ context.Context, id string) (*content.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return nil, content.NotFound("comment")
	}
	cp := *c
	return &cp, nil
}

func (m *memComments) ListTopLevel(_ context.Context, problemID string, limit, offset int) ([]*content.Comment, error) {
	return m.list(func(c *content.Comment) bool {
		return c.ProblemID == problemID && c.ParentID == ""
	}, limit, offset)
}

func (m *memComments) ListReplies(_ context.Context, parentID string, limit, offset int) ([]*content.Comment, error) {
	return m.list(func(c *content.Comment) bool { return c.ParentID == parentID }, limit, offset)
}

func (m *memComments) list(match func(*content.Comment) bool, limit, offset int) ([]*content.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*content.Comment
	for _, c := range m.rows {
		if match(c) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if offset >= len(out) {
		return nil, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (m *memComments) SoftDelete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.rows[id]
	if !ok {
		return content.NotFound("comment")
	}
	c.Deleted = true
	c.Body = ""
	return nil
}

type memEdge struct {
	active      bool
	activatedAt time.Time
}

type memEdges struct {
	mu    sync.Mutex
	seq   int64
	edges map[[2]string]*memEdge // (userID, targetID)
}

func newMemEdges() *memEdges { return &memEdges{edges: map[[2]string]*memEdge{}} }

func (m *memEdges) Activate(_ context.Context, userID, targetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{userID, targetID}
	e, ok := m.edges[key]
	if ok && e.active {
		return false, nil
	}
	m.seq++
	m.edges[key] = &memEdge{active: true, activatedAt: time.Unix(m.seq, 0)}
	return true, nil
}

func (m *memEdges) Deactivate(_ context.Context, userID, targetID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.edges[[2]string{userID, targetID}]
	if !ok || !e.active {
		return false, nil
	}
	e.active = false
	return true, nil
}

func (m *memEdges) ListTargetIDs(_ context.Context, userID string, limit, offset int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	type row struct {
		target string
		at     time.Time
	}
	var rows []row
	for key, e := range m.edges {
		if key[0] == userID && e.active {
			rows = append(rows, row{target: key[1], at: e.activatedAt})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].at.After(rows[j].at) })
	var out []string
	for i, r := range rows {
		if i < offset {
			continue
		}
		if len(out) == limit {
			break
		}
		out = append(out, r.target)
	}
	return out, nil
}

// memCounter tracks per-target counts, floored at zero like the store
// counter columns.
type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemCounter() *memCounter { return &memCounter{counts: map[string]int64{}} }

func (m *memCounter) Incr(_ context.Context, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[targetID]++
	return nil
}

func (m *memCounter) Decr(_ context.Context, targetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts[targetID] > 0 {
		m.counts[targetID]--
	}
	return nil
}

func (m *memCounter) value(targetID string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[targetID]
}
