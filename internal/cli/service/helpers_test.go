package service

import (
	"context"
	"sort"
	"sync"

	"StorySync/internal/cli/api"
	"StorySync/internal/cli/model"
	"StorySync/internal/cli/repo"
)

// memRepo is an in-memory StoryRepository for service tests. It records the
// order of write operations so tests can assert commit ordering.
type memRepo struct {
	mu      sync.Mutex
	stories map[string]model.Story
	ops     []string

	upsertErr error
	deleteErr error
	getAllErr error
}

func newMemRepo(seed ...model.Story) *memRepo {
	r := &memRepo{stories: make(map[string]model.Story)}
	for _, s := range seed {
		r.stories[s.ID] = s
	}
	return r
}

func (r *memRepo) Upsert(_ context.Context, s model.Story) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.stories[s.ID] = s
	r.ops = append(r.ops, "upsert:"+s.ID)
	return nil
}

func (r *memRepo) GetAll(_ context.Context) ([]model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getAllErr != nil {
		return nil, r.getAllErr
	}
	out := make([]model.Story, 0, len(r.stories))
	for _, s := range r.stories {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*model.Story, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (r *memRepo) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return false, r.deleteErr
	}
	if _, ok := r.stories[id]; !ok {
		return false, nil
	}
	delete(r.stories, id)
	r.ops = append(r.ops, "delete:"+id)
	return true, nil
}

func (r *memRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stories = make(map[string]model.Story)
	r.ops = append(r.ops, "clear")
	return nil
}

func (r *memRepo) Close() error { return nil }

func (r *memRepo) get(id string) (model.Story, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.stories[id]
	return s, ok
}

func (r *memRepo) opLog() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ops))
	copy(out, r.ops)
	return out
}

var _ repo.StoryRepository = (*memRepo)(nil)

// fakeAPI is a scriptable RemoteAPI.
type fakeAPI struct {
	mu          sync.Mutex
	online      bool
	listFn      func() ([]api.StoryDTO, error)
	createFn    func(description string, photo []byte, photoName string) (*api.CreateResult, error)
	listCalls   int
	createCalls int
}

func (f *fakeAPI) Online(context.Context) bool { return f.online }

func (f *fakeAPI) ListStories(context.Context) ([]api.StoryDTO, error) {
	f.mu.Lock()
	f.listCalls++
	fn := f.listFn
	f.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn()
}

func (f *fakeAPI) CreateStory(_ context.Context, description string, photo []byte, photoName string, _, _ *float64) (*api.CreateResult, error) {
	f.mu.Lock()
	f.createCalls++
	fn := f.createFn
	f.mu.Unlock()
	if fn == nil {
		return &api.CreateResult{ID: "srv-" + description}, nil
	}
	return fn(description, photo, photoName)
}

var _ RemoteAPI = (*fakeAPI)(nil)
