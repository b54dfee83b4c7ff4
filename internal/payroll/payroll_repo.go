package payroll

import (
	"context"
	"database/sql"

	"github.com/gistshu/chr/internal/attendance"
	"github.com/gistshu/chr/internal/shift"

	"gorm.io/gorm"
)

//go:generate mockgen -source=payroll_repo.go -destination=mock/payroll_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, p *Payroll) error
	Update(ctx context.Context, p *Payroll) error
	FindByID(ctx context.Context, id string) (*Payroll, error)
	FindByMonth(ctx context.Context, month string) ([]Payroll, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error)
	ListEmployees(ctx context.Context) ([]EmployeeFacts, error)
	FindEmployee(ctx context.Context, employeeID string) (*EmployeeFacts, error)
	GatherFacts(ctx context.Context, employeeID string, month string) (Facts, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) Update(ctx context.Context, p *Payroll) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Payroll, error) {
	var p Payroll
	err := r.db.WithContext(ctx).
		First(&p, "id = ?", id).Error
	return &p, err
}

func (r *repository) FindByMonth(ctx context.Context, month string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Where("month = ?", month).
		Order("employee_id ASC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]Payroll, error) {
	var payrolls []Payroll
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("month DESC").
		Find(&payrolls).Error
	return payrolls, err
}

func (r *repository) ListEmployees(ctx context.Context) ([]EmployeeFacts, error) {
	var employees []EmployeeFacts
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("employee_no ASC").
		Find(&employees).Error
	return employees, err
}

func (r *repository) FindEmployee(ctx context.Context, employeeID string) (*EmployeeFacts, error) {
	var emp EmployeeFacts
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		First(&emp, "id = ?", employeeID).Error
	return &emp, err
}

// GatherFacts merangkum fakta absensi dan jadwal satu pegawai untuk
// satu bulan menjadi masukan Formula Library.
func (r *repository) GatherFacts(ctx context.Context, employeeID string, month string) (Facts, error) {
	monthStart, monthEnd, err := shift.MonthBounds(month)
	if err != nil {
		return Facts{}, err
	}

	facts := Facts{FullAttendance: true}

	var attendanceAgg struct {
		WorkDays        int
		OvertimeMinutes int
		AnomalyCount    int
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE check_in IS NOT NULL OR finalized_in IS NOT NULL) AS work_days,
			COALESCE(SUM(overtime_minutes) FILTER (WHERE is_verified), 0)            AS overtime_minutes,
			COUNT(*) FILTER (WHERE status IN (?, ?, ?))                              AS anomaly_count
		FROM attendance_records
		WHERE employee_id = ? AND date >= ? AND date <= ?
	`, attendance.StatusLate, attendance.StatusEarlyLeave, attendance.StatusAbsent,
		employeeID, monthStart, monthEnd).
		Scan(&attendanceAgg).Error
	if err != nil {
		return Facts{}, err
	}

	facts.WorkDays = attendanceAgg.WorkDays
	facts.OvertimeHours = float64(attendanceAgg.OvertimeMinutes) / 60.0
	if attendanceAgg.AnomalyCount > 0 {
		facts.FullAttendance = false
	}

	var leaveAgg struct {
		SickDays     int
		PersonalDays int
	}
	err = r.db.WithContext(ctx).Raw(`
		SELECT
			COUNT(*) FILTER (WHERE type = ?) AS sick_days,
			COUNT(*) FILTER (WHERE type = ?) AS personal_days
		FROM shifts
		WHERE employee_id = ? AND date >= ? AND date <= ?
	`, shift.TypeSick, shift.TypePersonal, employeeID, monthStart, monthEnd).
		Scan(&leaveAgg).Error
	if err != nil {
		return Facts{}, err
	}

	facts.SickLeaveDays = leaveAgg.SickDays
	facts.PersonalLeaveDays = leaveAgg.PersonalDays
	if leaveAgg.SickDays > 0 || leaveAgg.PersonalDays > 0 {
		facts.FullAttendance = false
	}

	return facts, nil
}
