package notification

import (
	"time"

	"github.com/RAFagb11/synked-sub001/internal/common"
)

const (
	CategoryApplication = "application"
	CategoryEnrollment  = "enrollment"
	CategoryProject     = "project"
)

// Notification is a best-effort delivery record of an event relevant to one
// user. The read flag is mutated only by the recipient.
type Notification struct {
	ID        common.UUID `json:"id"`
	UserID    common.UUID `json:"user_id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Category  string      `json:"category"`
	Link      string      `json:"link,omitempty"`
	Read      bool        `json:"read"`
	CreatedAt time.Time   `json:"created_at"`
}
