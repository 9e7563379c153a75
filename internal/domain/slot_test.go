package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlot_Status(t *testing.T) {
	tests := []struct {
		name     string
		slot     Slot
		expected SlotStatus
	}{
		{"empty active slot", Slot{MaxCapacity: 5, CurrentBookings: 0, IsActive: true}, SlotStatusAvailable},
		{"partially booked", Slot{MaxCapacity: 5, CurrentBookings: 3, IsActive: true}, SlotStatusLimited},
		{"full", Slot{MaxCapacity: 5, CurrentBookings: 5, IsActive: true}, SlotStatusFull},
		{"inactive wins over counters", Slot{MaxCapacity: 5, CurrentBookings: 0, IsActive: false}, SlotStatusInactive},
		{"single capacity booked", Slot{MaxCapacity: 1, CurrentBookings: 1, IsActive: true}, SlotStatusFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.slot.Status())
		})
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, "green", StatusColor(SlotStatusAvailable))
	assert.Equal(t, "yellow", StatusColor(SlotStatusLimited))
	assert.Equal(t, "red", StatusColor(SlotStatusFull))
	assert.Equal(t, "gray", StatusColor(SlotStatusInactive))
	assert.Equal(t, "gray", StatusColor(SlotStatus("unknown")))
}

func TestSlot_Availability(t *testing.T) {
	s := Slot{MaxCapacity: 3, CurrentBookings: 2, IsActive: true}
	assert.True(t, s.IsAvailable())
	assert.False(t, s.IsFull())
	assert.True(t, s.HasBookings())
	assert.Equal(t, 1, s.AvailableCount())

	s.CurrentBookings = 3
	assert.False(t, s.IsAvailable())
	assert.True(t, s.IsFull())
	assert.Equal(t, 0, s.AvailableCount())

	s.IsActive = false
	s.CurrentBookings = 0
	assert.False(t, s.IsAvailable())
	assert.False(t, s.HasBookings())
}

func TestSlot_AvailableCountNeverNegative(t *testing.T) {
	s := Slot{MaxCapacity: 2, CurrentBookings: 5, IsActive: true}
	assert.Equal(t, 0, s.AvailableCount())
}
