package shift

type AssignShiftRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	Date       string `json:"date" binding:"required"`
	Type       string `json:"type" binding:"required"`
}

type GetScheduleFilterRequest struct {
	Month      string `form:"month" binding:"required"`
	EmployeeID string `form:"employee_id"`
}

type ShiftResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Type       string `json:"type"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type ShiftTypeResponse struct {
	Type      string `json:"type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Working   bool   `json:"working"`
}
