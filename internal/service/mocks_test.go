package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/forgo/ideaboard/api/internal/model"
)

// ============================================================================
// In-memory idea repository
// ============================================================================

// memIdeaRepo keeps ideas in a map guarded by one mutex, so every method
// is atomic with respect to the others.
type memIdeaRepo struct {
	mu    sync.Mutex
	ideas map[string]*model.Idea
	clock time.Time
}

func newMemIdeaRepo() *memIdeaRepo {
	return &memIdeaRepo{
		ideas: make(map[string]*model.Idea),
		clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *memIdeaRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Millisecond)
	return r.clock
}

func cloneIdea(i *model.Idea) *model.Idea {
	c := *i
	c.LikedBy = append([]string{}, i.LikedBy...)
	c.LikeCount = len(c.LikedBy)
	return &c
}

func (r *memIdeaRepo) Create(_ context.Context, n *model.NewIdea) (*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.tick()
	idea := &model.Idea{
		ID:          n.ID,
		Title:       n.Title,
		Description: n.Description,
		AuthorID:    n.AuthorID,
		LikedBy:     []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.ideas[n.ID] = idea
	return cloneIdea(idea), nil
}

func (r *memIdeaRepo) GetByID(_ context.Context, id string) (*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[id]
	if !ok {
		return nil, nil
	}
	return cloneIdea(idea), nil
}

func (r *memIdeaRepo) sorted(less func(a, b *model.Idea) bool) []*model.Idea {
	out := make([]*model.Idea, 0, len(r.ideas))
	for _, idea := range r.ideas {
		out = append(out, cloneIdea(idea))
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func newestFirst(a, b *model.Idea) bool { return a.CreatedAt.After(b.CreatedAt) }

func (r *memIdeaRepo) List(_ context.Context, p model.ListIdeasParams) ([]*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	less := newestFirst
	if p.Sort == model.SortMostLiked {
		less = func(a, b *model.Idea) bool {
			if a.LikeCount != b.LikeCount {
				return a.LikeCount > b.LikeCount
			}
			return newestFirst(a, b)
		}
	}
	all := r.sorted(less)

	start := p.Offset()
	if start >= len(all) {
		return []*model.Idea{}, nil
	}
	end := start + p.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memIdeaRepo) ListByAuthor(_ context.Context, authorID string) ([]*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*model.Idea{}
	for _, idea := range r.sorted(newestFirst) {
		if idea.AuthorID == authorID {
			out = append(out, idea)
		}
	}
	return out, nil
}

func (r *memIdeaRepo) ToggleLike(_ context.Context, ideaID, userID string) (*model.Idea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[ideaID]
	if !ok {
		return nil, nil
	}

	next := make([]string, 0, len(idea.LikedBy)+1)
	found := false
	for _, id := range idea.LikedBy {
		if id == userID {
			found = true
			continue
		}
		next = append(next, id)
	}
	if !found {
		next = append(next, userID)
	}
	idea.LikedBy = next
	idea.LikeCount = len(next)
	idea.UpdatedAt = r.tick()
	return cloneIdea(idea), nil
}

func (r *memIdeaRepo) DeleteByAuthor(_ context.Context, ideaID, authorID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idea, ok := r.ideas[ideaID]
	if !ok || idea.AuthorID != authorID {
		return false, nil
	}
	delete(r.ideas, ideaID)
	return true, nil
}

// ============================================================================
// Mock Repositories
// ============================================================================

type mockIdeaRepo struct {
	createFunc         func(ctx context.Context, idea *model.NewIdea) (*model.Idea, error)
	getByIDFunc        func(ctx context.Context, id string) (*model.Idea, error)
	listFunc           func(ctx context.Context, params model.ListIdeasParams) ([]*model.Idea, error)
	listByAuthorFunc   func(ctx context.Context, authorID string) ([]*model.Idea, error)
	toggleLikeFunc     func(ctx context.Context, ideaID, userID string) (*model.Idea, error)
	deleteByAuthorFunc func(ctx context.Context, ideaID, authorID string) (bool, error)
}

func (m *mockIdeaRepo) Create(ctx context.Context, idea *model.NewIdea) (*model.Idea, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, idea)
	}
	return nil, nil
}

func (m *mockIdeaRepo) GetByID(ctx context.Context, id string) (*model.Idea, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockIdeaRepo) List(ctx context.Context, params model.ListIdeasParams) ([]*model.Idea, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, params)
	}
	return nil, nil
}

func (m *mockIdeaRepo) ListByAuthor(ctx context.Context, authorID string) ([]*model.Idea, error) {
	if m.listByAuthorFunc != nil {
		return m.listByAuthorFunc(ctx, authorID)
	}
	return nil, nil
}

func (m *mockIdeaRepo) ToggleLike(ctx context.Context, ideaID, userID string) (*model.Idea, error) {
	if m.toggleLikeFunc != nil {
		return m.toggleLikeFunc(ctx, ideaID, userID)
	}
	return nil, nil
}

func (m *mockIdeaRepo) DeleteByAuthor(ctx context.Context, ideaID, authorID string) (bool, error) {
	if m.deleteByAuthorFunc != nil {
		return m.deleteByAuthorFunc(ctx, ideaID, authorID)
	}
	return false, nil
}

type mockDirectory struct {
	names      map[string]string
	lookupFunc func(ctx context.Context, ids []string) (map[string]string, error)
}

func (m *mockDirectory) LookupNames(ctx context.Context, ids []string) (map[string]string, error) {
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, ids)
	}
	out := make(map[string]string, len(ids))
	for _, id := range ids {
		if name, ok := m.names[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	created []string
	deleted []string
	err     error
}

func (p *recordingPublisher) PublishIdeaCreated(_ context.Context, idea *model.Idea) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, idea.ID)
	return p.err
}

func (p *recordingPublisher) PublishIdeaDeleted(_ context.Context, ideaID, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, ideaID)
	return p.err
}

type mockUserWriter struct {
	users []model.NewUser
}

func (m *mockUserWriter) UpsertMany(_ context.Context, users []model.NewUser) error {
	m.users = append(m.users, users...)
	return nil
}
