package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"worklog/internal/domain"
)

func TestProjectCache(t *testing.T) {
	now := time.Date(2026, 3, 31, 9, 0, 0, 0, time.UTC)
	cache := NewProjectCache(time.Minute)
	cache.now = func() time.Time { return now }

	_, ok := cache.Get("p1")
	assert.False(t, ok)

	cache.Set(domain.Project{ID: "p1", Title: "Site renewal"})
	project, ok := cache.Get("p1")
	assert.True(t, ok)
	assert.Equal(t, "Site renewal", project.Title)

	// Returned values are copies
	project.Title = "changed"
	project, _ = cache.Get("p1")
	assert.Equal(t, "Site renewal", project.Title)

	now = now.Add(2 * time.Minute)
	_, ok = cache.Get("p1")
	assert.False(t, ok, "entry should expire after ttl")
}
