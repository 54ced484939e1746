// Package models contains domain entities and business models for the ticketing system
package models

import (
	"time"
)

// Admin represents a system operator. Accounts are provisioned out-of-band
// (seed step); the API only reads them for credential verification.
type Admin struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:255;not null;uniqueIndex:uk_admins_email" json:"email"`
	PasswordHash string `gorm:"column:password;size:255;not null" json:"-"`
	Name         string `gorm:"size:255;not null" json:"name"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Admin) TableName() string {
	return "admins"
}

// AdminFilter represents filter criteria for admin queries
type AdminFilter struct {
	ID            *uint
	Email         *string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
}
