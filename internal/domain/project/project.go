package project

import (
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusClosed     Status = "closed"
)

// Project is a unit of work posted by an organization. ApplicantCount,
// ApplicationCount and EnrolledIDs are denormalized for read efficiency;
// the application records are authoritative and reconciliation recomputes
// these fields from them.
type Project struct {
	ID               common.UUID   `json:"id"`
	OrganizationID   common.UUID   `json:"organization_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Category         string        `json:"category"`
	Skills           []string      `json:"skills,omitempty"`
	Compensation     float64       `json:"compensation"`
	ExperienceOnly   bool          `json:"experience_only"`
	Status           Status        `json:"status"`
	ApplicantCount   int           `json:"applicant_count"`
	ApplicationCount int           `json:"application_count"`
	EnrolledIDs      []common.UUID `json:"enrolled_ids,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (p Project) IsEnrolled(applicantID common.UUID) bool {
	for _, id := range p.EnrolledIDs {
		if id == applicantID {
			return true
		}
	}
	return false
}
