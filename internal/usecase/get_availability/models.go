package get_availability

// SlotAvailabilityView представление доступности одного слота
type SlotAvailabilityView struct {
	SlotID         int64   `json:"slotId"`
	StartTime      string  `json:"startTime"`   // HH:MM
	EndTime        string  `json:"endTime"`     // HH:MM
	DisplayTime    string  `json:"displayTime"` // 12-часовой формат, например "09:00 AM"
	AvailableCount int     `json:"availableCount"`
	TotalCapacity  int     `json:"totalCapacity"`
	IsAvailable    bool    `json:"isAvailable"`
	Status         string  `json:"status"`
	StatusColor    string  `json:"statusColor"`
	Price          float64 `json:"price"` // действующая цена услуги
}

// DayAvailabilityResponse доступность услуги на один календарный день
type DayAvailabilityResponse struct {
	Date      string                  `json:"date"` // YYYY-MM-DD
	ServiceID int64                   `json:"serviceId"`
	Slots     []*SlotAvailabilityView `json:"slots"`
}

// WeeklyAvailabilityResponse доступность на 7 последовательных дней,
// в порядке следования дней
type WeeklyAvailabilityResponse struct {
	ServiceID int64                      `json:"serviceId"`
	StartDate string                     `json:"startDate"` // YYYY-MM-DD
	Days      []*DayAvailabilityResponse `json:"days"`
}

// CheckAvailabilityResponse результат точечной проверки доступности
type CheckAvailabilityResponse struct {
	SlotID    int64 `json:"slotId"`
	Quantity  int   `json:"quantity"`
	Available bool  `json:"available"`
}
