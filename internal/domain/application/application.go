package application

import (
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// Content carries the applicant-authored parts of an application.
// MediaRef points at an uploaded clip; storage of the media itself is
// handled elsewhere.
type Content struct {
	CoverLetter  string `json:"cover_letter"`
	Answer       string `json:"answer,omitempty"`
	MediaRef     string `json:"media_ref,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// Application is one applicant's request to join one project.
// OrganizationID is copied from the project at creation time so
// organization-scoped queries do not need a join.
type Application struct {
	ID             common.UUID `json:"id"`
	ProjectID      common.UUID `json:"project_id"`
	ApplicantID    common.UUID `json:"applicant_id"`
	OrganizationID common.UUID `json:"organization_id"`
	Content        Content     `json:"content"`
	Status         Status      `json:"status"`
	Feedback       string      `json:"feedback,omitempty"`
	AcceptedAt     *time.Time  `json:"accepted_at,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Active reports whether the application counts against the
// one-active-engagement-per-applicant rule.
func (a Application) Active() bool {
	return a.Status == StatusPending || a.Status == StatusAccepted
}
