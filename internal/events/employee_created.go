package events

import "time"

const EmployeeCreatedTopic = "clinic.employee.created.v1"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	EmployeeID string    `json:"employee_id"`
	EmployeeNo string    `json:"employee_no"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	OccurredAt time.Time `json:"occurred_at"`
}
