package events

import "time"

const PayrollGeneratedTopic = "clinic.payroll.generated.v1"

type PayrollGeneratedEvent struct {
	EventType  string    `json:"event_type"`
	PayrollID  string    `json:"payroll_id"`
	EmployeeID string    `json:"employee_id"`
	Month      string    `json:"month"`
	NetPay     int64     `json:"net_pay"`
	OccurredAt time.Time `json:"occurred_at"`
}
