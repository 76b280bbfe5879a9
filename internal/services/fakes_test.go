package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"worklog/internal/api"
	"worklog/internal/domain"
	"worklog/internal/drafts"
	"worklog/internal/errors"
	"worklog/internal/notify"
)

type updateCall struct {
	ID  string
	Req api.UpdateWorkLogRequest
	At  time.Time
}

// fakeAPI is a hand-written api.API that records calls
type fakeAPI struct {
	mu          sync.Mutex
	projects    map[string]domain.Project
	createErr   error
	updateErr   error
	creates     []api.CreateWorkLogRequest
	updates     []updateCall
	nextID      int
	block       chan struct{}
	delay       time.Duration
	inFlight    int
	maxInFlight int
}

func newFakeAPI(projectIDs ...string) *fakeAPI {
	f := &fakeAPI{projects: make(map[string]domain.Project)}
	for _, id := range projectIDs {
		f.projects[id] = domain.Project{ID: id, Title: "Project " + id}
	}
	return f
}

func (f *fakeAPI) GetProjectByID(ctx context.Context, id string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	p, ok := f.projects[id]
	if !ok {
		return nil, errors.NewNotFoundError("project", id)
	}
	return &p, nil
}

func (f *fakeAPI) CreateWorkLog(ctx context.Context, req api.CreateWorkLogRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	return fmt.Sprintf("wl-%s-%d", req.ProjectID, f.nextID), nil
}

func (f *fakeAPI) UpdateWorkLog(ctx context.Context, id string, req api.UpdateWorkLogRequest) error {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	block, delay := f.block, f.delay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.inFlight--
	f.updates = append(f.updates, updateCall{ID: id, Req: req, At: time.Now()})
	return f.updateErr
}

func (f *fakeAPI) setUpdateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateErr = err
}

func (f *fakeAPI) setCreateErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createErr = err
}

func (f *fakeAPI) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func (f *fakeAPI) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

func (f *fakeAPI) lastUpdate() updateCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.updates) == 0 {
		return updateCall{}
	}
	return f.updates[len(f.updates)-1]
}

func (f *fakeAPI) updatesFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, u := range f.updates {
		if u.ID == id {
			n++
		}
	}
	return n
}

// countingKV is an in-memory drafts.KeyValueStore that counts writes
type countingKV struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newCountingKV() *countingKV {
	return &countingKV{values: make(map[string]string)}
}

func (c *countingKV) Get(key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *countingKV) Set(key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.values[key] = value
	return nil
}

func (c *countingKV) Remove(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *countingKV) setCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

func (c *countingKV) has(projectID string) bool {
	_, ok, _ := c.Get(drafts.Key(projectID))
	return ok
}

func (c *countingKV) value(projectID string) string {
	v, _, _ := c.Get(drafts.Key(projectID))
	return v
}

// recordingNotifier keeps every notification
type recordingNotifier struct {
	mu  sync.Mutex
	got []notify.Notification
}

func (r *recordingNotifier) Notify(n notify.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, n)
}

func (r *recordingNotifier) count(variant notify.Variant) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, g := range r.got {
		if g.Variant == variant {
			n++
		}
	}
	return n
}

// fakeClock is a settable clock
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
