package events

import "time"

const AttendanceVerifiedTopic = "clinic.attendance.verified.v1"

type AttendanceVerifiedEvent struct {
	EventType    string    `json:"event_type"`
	AttendanceID string    `json:"attendance_id"`
	EmployeeID   string    `json:"employee_id"`
	Date         string    `json:"date"`
	IsOvertime   bool      `json:"is_overtime"`
	VerifiedBy   string    `json:"verified_by"`
	OccurredAt   time.Time `json:"occurred_at"`
}
