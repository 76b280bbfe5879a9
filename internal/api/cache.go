package api

import (
	"sync"
	"time"

	"worklog/internal/domain"
)

type cachedProject struct {
	project   domain.Project
	fetchedAt time.Time
}

// ProjectCache keeps recently fetched projects for ttl.
type ProjectCache struct {
	mu       sync.RWMutex
	projects map[string]cachedProject
	ttl      time.Duration
	now      func() time.Time
}

func NewProjectCache(ttl time.Duration) *ProjectCache {
	return &ProjectCache{
		projects: make(map[string]cachedProject),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *ProjectCache) Get(id string) (*domain.Project, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, ok := c.projects[id]
	if !ok || c.now().Sub(cached.fetchedAt) > c.ttl {
		return nil, false
	}

	p := cached.project
	return &p, true
}

func (c *ProjectCache) Set(p domain.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.projects[p.ID] = cachedProject{project: p, fetchedAt: c.now()}
}
