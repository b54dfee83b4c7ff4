package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShiftWindow adalah proyeksi baca dari tabel shifts milik modul penjadwalan.
type ShiftWindow struct {
	EmployeeID uuid.UUID
	Date       time.Time
	Type       string
	StartTime  string
	EndTime    string
}

func (ShiftWindow) TableName() string {
	return "shifts"
}

// EmployeeRef adalah proyeksi baca dari tabel employees untuk overview.
type EmployeeRef struct {
	ID         uuid.UUID
	EmployeeNo string
	FullName   string
}

func (EmployeeRef) TableName() string {
	return "employees"
}

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, record *Attendance) error
	Update(ctx context.Context, record *Attendance) error
	FindByID(ctx context.Context, id string) (*Attendance, error)
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)
	FindByDate(ctx context.Context, date time.Time) ([]Attendance, error)
	FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
	FindShiftWindow(ctx context.Context, employeeID string, date time.Time) (*ShiftWindow, error)
	FindShiftWindows(ctx context.Context, employeeID string, from, to time.Time) ([]ShiftWindow, error)
	FindShiftWindowsByDate(ctx context.Context, date time.Time) ([]ShiftWindow, error)
	ListEmployees(ctx context.Context) ([]EmployeeRef, error)
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

func (r *repository) Create(ctx context.Context, record *Attendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *Attendance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Attendance, error) {
	var record Attendance
	err := r.db.WithContext(ctx).
		First(&record, "id = ?", id).Error
	return &record, err
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error) {
	var record Attendance
	err := r.db.WithContext(ctx).
		First(&record, "employee_id = ? AND date = ?", employeeID, date).Error
	return &record, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("employee_id ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindByEmployeeAndRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error) {
	var records []Attendance
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindShiftWindow(ctx context.Context, employeeID string, date time.Time) (*ShiftWindow, error) {
	var window ShiftWindow
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		First(&window).Error
	return &window, err
}

func (r *repository) FindShiftWindows(ctx context.Context, employeeID string, from, to time.Time) ([]ShiftWindow, error) {
	var windows []ShiftWindow
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date >= ? AND date <= ?", from, to).
		Order("date ASC").
		Find(&windows).Error
	return windows, err
}

func (r *repository) FindShiftWindowsByDate(ctx context.Context, date time.Time) ([]ShiftWindow, error) {
	var windows []ShiftWindow
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("employee_id ASC").
		Find(&windows).Error
	return windows, err
}

func (r *repository) ListEmployees(ctx context.Context) ([]EmployeeRef, error) {
	var employees []EmployeeRef
	err := r.db.WithContext(ctx).
		Where("deleted_at IS NULL").
		Order("employee_no ASC").
		Find(&employees).Error
	return employees, err
}
