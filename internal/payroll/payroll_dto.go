package payroll

import "encoding/json"

type GeneratePayrollRequest struct {
	Month string `json:"month" binding:"required"`
}

type UpdatePayrollFieldRequest struct {
	Field string      `json:"field" binding:"required"`
	Value json.Number `json:"value" binding:"required"`
}

type GetPayrollsFilterRequest struct {
	Month string `form:"month" binding:"required"`
}

type PayrollResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	Month      string `json:"month"`

	WorkDays           int     `json:"work_days"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`

	BaseSalary          int64 `json:"base_salary"`
	MealAllowance       int64 `json:"meal_allowance"`
	FullAttendanceBonus int64 `json:"full_attendance_bonus"`
	JobAllowance        int64 `json:"job_allowance"`

	WeekdayOvertimePay   int64 `json:"weekday_overtime_pay"`
	RestDayOvertimePay   int64 `json:"rest_day_overtime_pay"`
	HolidayOvertimePay   int64 `json:"holiday_overtime_pay"`
	UnusedAnnualLeavePay int64 `json:"unused_annual_leave_pay"`
	OtherBonuses         int64 `json:"other_bonuses"`
	TransportAllowance   int64 `json:"transport_allowance"`

	LaborInsurance         int64 `json:"labor_insurance"`
	HealthInsurance        int64 `json:"health_insurance"`
	Pension                int64 `json:"pension"`
	WelfareFund            int64 `json:"welfare_fund"`
	Tax                    int64 `json:"tax"`
	SickLeaveDeduction     int64 `json:"sick_leave_deduction"`
	PersonalLeaveDeduction int64 `json:"personal_leave_deduction"`
	OtherDeductions        int64 `json:"other_deductions"`

	SubtotalA       int64 `json:"subtotal_a"`
	SubtotalB       int64 `json:"subtotal_b"`
	SubtotalC       int64 `json:"subtotal_c"`
	GrossSalary     int64 `json:"gross_salary"`
	TotalDeductions int64 `json:"total_deductions"`
	NetSalary       int64 `json:"net_salary"`

	IsLocked   bool    `json:"is_locked"`
	PayslipURL *string `json:"payslip_url,omitempty"`
}

func mapToResponse(p Payroll) PayrollResponse {
	return PayrollResponse{
		ID:         p.ID.String(),
		EmployeeID: p.EmployeeID.String(),
		Month:      p.Month,

		WorkDays:           p.WorkDays,
		TotalOvertimeHours: p.TotalOvertimeHours,

		BaseSalary:          p.BaseSalary,
		MealAllowance:       p.MealAllowance,
		FullAttendanceBonus: p.FullAttendanceBonus,
		JobAllowance:        p.JobAllowance,

		WeekdayOvertimePay:   p.WeekdayOvertimePay,
		RestDayOvertimePay:   p.RestDayOvertimePay,
		HolidayOvertimePay:   p.HolidayOvertimePay,
		UnusedAnnualLeavePay: p.UnusedAnnualLeavePay,
		OtherBonuses:         p.OtherBonuses,
		TransportAllowance:   p.TransportAllowance,

		LaborInsurance:         p.LaborInsurance,
		HealthInsurance:        p.HealthInsurance,
		Pension:                p.Pension,
		WelfareFund:            p.WelfareFund,
		Tax:                    p.Tax,
		SickLeaveDeduction:     p.SickLeaveDeduction,
		PersonalLeaveDeduction: p.PersonalLeaveDeduction,
		OtherDeductions:        p.OtherDeductions,

		SubtotalA:       p.SubtotalA,
		SubtotalB:       p.SubtotalB,
		SubtotalC:       p.SubtotalC,
		GrossSalary:     p.GrossSalary,
		TotalDeductions: p.TotalDeductions,
		NetSalary:       p.NetSalary,

		IsLocked:   p.IsLocked,
		PayslipURL: p.PayslipURL,
	}
}

func mapToListResponse(payrolls []Payroll) []PayrollResponse {
	resp := make([]PayrollResponse, 0, len(payrolls))
	for _, p := range payrolls {
		resp = append(resp, mapToResponse(p))
	}
	return resp
}
