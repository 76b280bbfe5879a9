// Package api talks to the work-log REST backend.
package api

import (
	"context"

	"worklog/internal/domain"
)

// ProjectLookup fetches project display data.
type ProjectLookup interface {
	GetProjectByID(ctx context.Context, id string) (*domain.Project, error)
}

// WorkLogWriter creates and updates work-log records. Updates overwrite the
// whole record, so repeating one is harmless.
type WorkLogWriter interface {
	CreateWorkLog(ctx context.Context, req CreateWorkLogRequest) (string, error)
	UpdateWorkLog(ctx context.Context, id string, req UpdateWorkLogRequest) error
}

// API is everything a work-log session needs from the backend.
type API interface {
	ProjectLookup
	WorkLogWriter
}
