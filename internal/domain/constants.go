package domain

import "github.com/smartwash/CW-SlotBookingService/pkg/types"

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Business validation constants
const (
	MinSlotCapacity = 1
	MaxSlotCapacity = 100

	MaxNotesLength = 500

	// WeeklyAvailabilityDays число дней в недельной выборке доступности
	WeeklyAvailabilityDays = 7
)

// SlotWindow одно окно дефолтного расписания генерации слотов
type SlotWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// DefaultSlotTemplate дневной шаблон генерации слотов: шесть часовых окон
// с перерывом 12:00-14:00
var DefaultSlotTemplate = []SlotWindow{
	{Start: "09:00", End: "10:00"},
	{Start: "10:00", End: "11:00"},
	{Start: "11:00", End: "12:00"},
	{Start: "14:00", End: "15:00"},
	{Start: "15:00", End: "16:00"},
	{Start: "16:00", End: "17:00"},
}
