package domain

import (
	"time"

	"github.com/smartwash/CW-SlotBookingService/pkg/types"
)

// SlotStatus represents the derived availability status of a slot
type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "Available"
	SlotStatusLimited   SlotStatus = "Limited"
	SlotStatusFull      SlotStatus = "Full"
	SlotStatusInactive  SlotStatus = "Inactive"
)

// Slot represents a bookable time window for a service on a calendar date.
// CurrentBookings is the shared counter mutated by the booking transaction;
// Version is the optimistic-concurrency token bumped on every successful write.
type Slot struct {
	ID              int64
	ServiceID       int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	MaxCapacity     int
	CurrentBookings int
	IsActive        bool
	Version         int64

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// IsAvailable returns true if the slot is active and has free capacity
func (s *Slot) IsAvailable() bool {
	return s.IsActive && s.CurrentBookings < s.MaxCapacity
}

// IsFull returns true if every spot in the slot is taken
func (s *Slot) IsFull() bool {
	return s.CurrentBookings >= s.MaxCapacity
}

// HasBookings returns true if at least one booking holds capacity on the slot.
// Such a slot rejects updates and deletion.
func (s *Slot) HasBookings() bool {
	return s.CurrentBookings > 0
}

// AvailableCount returns the number of free spots
func (s *Slot) AvailableCount() int {
	free := s.MaxCapacity - s.CurrentBookings
	if free < 0 {
		return 0
	}
	return free
}

// Status derives the availability status from the counters
func (s *Slot) Status() SlotStatus {
	switch {
	case !s.IsActive:
		return SlotStatusInactive
	case s.CurrentBookings >= s.MaxCapacity:
		return SlotStatusFull
	case s.CurrentBookings == 0:
		return SlotStatusAvailable
	default:
		return SlotStatusLimited
	}
}

// StatusColor returns the UI color hint for a status
func StatusColor(status SlotStatus) string {
	switch status {
	case SlotStatusAvailable:
		return "green"
	case SlotStatusLimited:
		return "yellow"
	case SlotStatusFull:
		return "red"
	default:
		return "gray"
	}
}
