package attendance

const (
	ClockKindIn  = "IN"
	ClockKindOut = "OUT"
)

type ClockEventRequest struct {
	EmployeeID   string  `json:"employee_id" binding:"required,uuid"`
	Date         string  `json:"date" binding:"required"`
	Kind         string  `json:"kind" binding:"required,oneof=IN OUT"`
	Time         string  `json:"time" binding:"required"`
	LocationType string  `json:"location_type" binding:"omitempty,oneof=GPS WIFI"`
	WifiSSID     string  `json:"wifi_ssid"`
	GpsLocation  string  `json:"gps_location"`
	Distance     float64 `json:"distance" binding:"omitempty,gte=0"`
}

type VerifyShiftRequest struct {
	EmployeeID   string `json:"employee_id" binding:"required,uuid"`
	Date         string `json:"date" binding:"required"`
	FinalizedIn  string `json:"finalized_in"`
	FinalizedOut string `json:"finalized_out"`
}

type UpdateClockTimeRequest struct {
	Field string `json:"field" binding:"required,oneof=check_in check_out"`
	Value string `json:"value" binding:"required"`
}

type UpdateNoteRequest struct {
	Note string `json:"note"`
}

type GetAttendanceFilterRequest struct {
	Date       string `form:"date" binding:"required"`
	EmployeeID string `form:"employee_id"`
}

type WeeklySummaryFilterRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	WeekStart  string `form:"week_start" binding:"required"`
}

type AttendanceResponse struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employee_id"`
	Date            string  `json:"date"`
	CheckIn         *string `json:"check_in,omitempty"`
	CheckOut        *string `json:"check_out,omitempty"`
	FinalizedIn     *string `json:"finalized_in,omitempty"`
	FinalizedOut    *string `json:"finalized_out,omitempty"`
	Status          string  `json:"status"`
	LocationType    string  `json:"location_type,omitempty"`
	WifiSSID        string  `json:"wifi_ssid,omitempty"`
	GpsLocation     string  `json:"gps_location,omitempty"`
	Distance        float64 `json:"distance,omitempty"`
	Note            string  `json:"note,omitempty"`
	IsVerified      bool    `json:"is_verified"`
	IsOvertime      bool    `json:"is_overtime"`
	OvertimeMinutes int     `json:"overtime_minutes"`
	State           string  `json:"state"`

	// true saat verifikasi dilakukan tanpa jadwal; deteksi lembur ditekan
	ScheduleMissing bool `json:"schedule_missing,omitempty"`
}

type DailyOverviewRow struct {
	EmployeeID string `json:"employee_id"`
	EmployeeNo string `json:"employee_no"`
	FullName   string `json:"full_name"`

	ShiftType  string `json:"shift_type,omitempty"`
	ShiftStart string `json:"shift_start,omitempty"`
	ShiftEnd   string `json:"shift_end,omitempty"`

	CheckIn      *string `json:"check_in,omitempty"`
	CheckOut     *string `json:"check_out,omitempty"`
	Status       string  `json:"status,omitempty"`
	LocationType string  `json:"location_type,omitempty"`
	Note         string  `json:"note,omitempty"`
	IsVerified   bool    `json:"is_verified"`
	IsOvertime   bool    `json:"is_overtime"`

	State string `json:"state"`
}

type WeeklySummaryResponse struct {
	EmployeeID   string  `json:"employee_id"`
	WeekStart    string  `json:"week_start"`
	WeekEnd      string  `json:"week_end"`
	WorkingDays  int     `json:"working_days"`
	TotalHours   float64 `json:"total_hours"`
	OvertimeDays int     `json:"overtime_days"`

	// true saat total jam melewati batas mingguan 46 jam
	ExceedsWeeklyCap bool `json:"exceeds_weekly_cap"`
}
