// Package models contains data structures for the brokerage domain.
package models

import "time"

// Property statuses.
const (
	PropertyStatusForSale     = "For Sale"
	PropertyStatusForRent     = "For Rent"
	PropertyStatusSold        = "Sold"
	PropertyStatusComingSoon  = "Coming Soon"
	PropertyStatusMaintenance = "Maintenance"
)

// Supported listing currencies.
const (
	CurrencyUSD = "USD"
	CurrencyNGN = "NGN"
)

// PropertyStatuses lists every accepted property status in display order.
var PropertyStatuses = []string{
	PropertyStatusForSale,
	PropertyStatusForRent,
	PropertyStatusSold,
	PropertyStatusComingSoon,
	PropertyStatusMaintenance,
}

// FloorPlan is a labelled floor plan image attached to a property.
type FloorPlan struct {
	Label string `json:"label"`
	Image string `json:"image"`
}

// Property is a listing shown on the public site.
type Property struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Address     string      `gorm:"not null" json:"address"`
	Price       float64     `gorm:"not null" json:"price"`
	Currency    string      `gorm:"size:3;not null;default:USD" json:"currency"`
	Image       string      `gorm:"not null" json:"image"`
	Gallery     []string    `gorm:"serializer:json;type:text" json:"gallery"`
	Beds        int         `gorm:"not null" json:"beds"`
	Baths       float64     `gorm:"not null" json:"baths"`
	Sqft        int         `gorm:"not null" json:"sqft"`
	Status      string      `gorm:"not null;index" json:"status"`
	Tags        []string    `gorm:"serializer:json;type:text" json:"tags"`
	Featured    bool        `gorm:"not null;default:false;index" json:"featured"`
	Description string      `gorm:"type:text" json:"description"`
	Amenities   []string    `gorm:"serializer:json;type:text" json:"amenities"`
	FloorPlans  []FloorPlan `gorm:"serializer:json;type:text" json:"floor_plans"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsValidPropertyStatus reports whether s is one of PropertyStatuses.
func IsValidPropertyStatus(s string) bool {
	for _, status := range PropertyStatuses {
		if status == s {
			return true
		}
	}
	return false
}
