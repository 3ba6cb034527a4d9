package models

import (
	"time"

	"github.com/railtix/railtix/pkg/constants"
)

// BookingRequest is the input of a booking attempt.
type BookingRequest struct {
	Identity       ClientIdentity
	Quantity       int
	PassengerNames []string // optional; console variant collects one per ticket
}

// BookingResult is the immutable value returned to the caller. Success and
// Message form the core contract; the remaining fields are additive detail.
type BookingResult struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	BookingID   string   `json:"booking_id,omitempty"`
	TicketCodes []string `json:"ticket_codes,omitempty"`
	Remaining   int      `json:"remaining,omitempty"`
}

// BookingEvent records one booking attempt for the audit sinks. Emission is
// best-effort and never influences the booking outcome.
type BookingEvent struct {
	BookingID string                   `json:"booking_id" gorm:"primaryKey;column:booking_id"`
	UserID    string                   `json:"user_id" gorm:"column:user_id;index"`
	DeviceID  string                   `json:"device_id" gorm:"column:device_id"`
	IPAddress string                   `json:"ip_address" gorm:"column:ip_address"`
	Quantity  int                      `json:"quantity" gorm:"column:quantity"`
	Outcome   constants.BookingOutcome `json:"outcome" gorm:"column:outcome;index"`
	Reason    string                   `json:"reason,omitempty" gorm:"column:reason"`
	Codes     string                   `json:"codes,omitempty" gorm:"column:codes"`
	CreatedAt time.Time                `json:"created_at" gorm:"column:created_at"`
}

// TableName sets the archive table name for gorm.
func (BookingEvent) TableName() string {
	return "booking_events"
}
