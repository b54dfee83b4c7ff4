package payroll

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var registerColumns = []string{
	"Employee No", "Name", "Work Days", "Overtime Hours",
	"Base Salary", "Meal Allowance", "Full Attendance Bonus", "Job Allowance", "Subtotal A",
	"Weekday OT", "Rest Day OT", "Holiday OT", "Unused Annual Leave", "Other Bonuses", "Transport", "Subtotal B",
	"Labor Insurance", "Health Insurance", "Pension", "Welfare Fund", "Tax",
	"Sick Leave", "Personal Leave", "Other Deductions", "Subtotal C",
	"Gross Salary", "Net Salary", "Locked",
}

// buildRegisterXLSX menyusun rekap gaji satu bulan, satu baris per pegawai.
func buildRegisterXLSX(month string, records []Payroll, employees map[uuid.UUID]EmployeeFacts) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Payroll " + month
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for i, col := range registerColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDDDDD"}},
	})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(registerColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, headerStyle); err != nil {
		return nil, err
	}

	for i, p := range records {
		emp := employees[p.EmployeeID]

		locked := "No"
		if p.IsLocked {
			locked = "Yes"
		}

		values := []any{
			emp.EmployeeNo, emp.FullName, p.WorkDays, p.TotalOvertimeHours,
			p.BaseSalary, p.MealAllowance, p.FullAttendanceBonus, p.JobAllowance, p.SubtotalA,
			p.WeekdayOvertimePay, p.RestDayOvertimePay, p.HolidayOvertimePay,
			p.UnusedAnnualLeavePay, p.OtherBonuses, p.TransportAllowance, p.SubtotalB,
			p.LaborInsurance, p.HealthInsurance, p.Pension, p.WelfareFund, p.Tax,
			p.SickLeaveDeduction, p.PersonalLeaveDeduction, p.OtherDeductions, p.SubtotalC,
			p.GrossSalary, p.NetSalary, locked,
		}

		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write payroll register: %w", err)
	}
	return buf.Bytes(), nil
}
