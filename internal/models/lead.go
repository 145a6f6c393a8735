package models

import "time"

// Lead statuses.
const (
	LeadStatusNew              = "New"
	LeadStatusContacted        = "Contacted"
	LeadStatusPendingReview    = "Pending Review"
	LeadStatusScheduledViewing = "Scheduled Viewing"
	LeadStatusClosed           = "Closed"
)

// LeadStatuses lists every accepted lead status in pipeline order.
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusPendingReview,
	LeadStatusScheduledViewing,
	LeadStatusClosed,
}

// Lead is an enquiry captured from a public form. Leads are never exposed publicly.
type Lead struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"not null" json:"name"`
	Email            string     `gorm:"not null;index" json:"email"`
	Phone            string     `json:"phone,omitempty"`
	PropertyInterest string     `gorm:"not null" json:"property_interest"`
	PropertyDetails  string     `gorm:"type:text" json:"property_details,omitempty"`
	Budget           string     `json:"budget,omitempty"`
	Message          string     `gorm:"type:text" json:"message,omitempty"`
	Status           string     `gorm:"not null;default:New;index" json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	ContactedAt      *time.Time `json:"contacted_at,omitempty"`
}

// IsValidLeadStatus reports whether s is one of LeadStatuses.
func IsValidLeadStatus(s string) bool {
	for _, status := range LeadStatuses {
		if status == s {
			return true
		}
	}
	return false
}
