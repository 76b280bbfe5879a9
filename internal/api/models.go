package api

import (
	"time"

	"worklog/internal/domain"
)

// CreateWorkLogRequest is the body of POST /work-logs
type CreateWorkLogRequest struct {
	ProjectID string    `json:"projectId"`
	StartTime time.Time `json:"startTime"`
}

type createWorkLogResponse struct {
	ID string `json:"id"`
}

// UpdateWorkLogRequest is the body of PUT /work-logs/{id}. BreakTime is in
// whole minutes.
type UpdateWorkLogRequest struct {
	ProjectID string     `json:"projectId"`
	StartTime *time.Time `json:"startTime"`
	EndTime   *time.Time `json:"endTime,omitempty"`
	Memo      *string    `json:"memo,omitempty"`
	BreakTime int        `json:"breakTime"`
}

type projectResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	CompanyName string `json:"companyName"`
	Description string `json:"description"`
}

func (p projectResponse) toDomain() *domain.Project {
	return &domain.Project{
		ID:          p.ID,
		Title:       p.Title,
		CompanyName: p.CompanyName,
		Description: p.Description,
	}
}

// NewUpdateRequest builds the update payload for a draft.
func NewUpdateRequest(draft domain.WorkLogDraft) UpdateWorkLogRequest {
	d := draft.Clone()
	req := UpdateWorkLogRequest{
		ProjectID: d.ProjectID,
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		BreakTime: int(d.BreakTime / time.Minute),
	}
	if d.Memo != "" {
		memo := d.Memo
		req.Memo = &memo
	}
	return req
}
