package shift

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=shift_repo.go -destination=mock/shift_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, shift *Shift) error
	FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Shift, error)
	FindByMonth(ctx context.Context, monthStart, monthEnd time.Time) ([]Shift, error)
	FindByEmployeeAndMonth(ctx context.Context, employeeID string, monthStart, monthEnd time.Time) ([]Shift, error)
	FindByDate(ctx context.Context, date time.Time) ([]Shift, error)
	Delete(ctx context.Context, employeeID string, date time.Time) error
	EmployeeExists(ctx context.Context, employeeID string) (bool, error)
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

func (r *repository) Upsert(ctx context.Context, shift *Shift) error {
	// Satu shift per (employee_id, date); assign ulang menimpa jadwal lama
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "start_time", "end_time", "updated_at"}),
		}).
		Create(shift).Error
}

func (r *repository) FindByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Shift, error) {
	var shift Shift
	err := r.db.WithContext(ctx).
		First(&shift, "employee_id = ? AND date = ?", employeeID, date).Error
	return &shift, err
}

func (r *repository) FindByMonth(ctx context.Context, monthStart, monthEnd time.Time) ([]Shift, error) {
	var shifts []Shift
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", monthStart, monthEnd).
		Order("date ASC, employee_id ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *repository) FindByEmployeeAndMonth(ctx context.Context, employeeID string, monthStart, monthEnd time.Time) ([]Shift, error) {
	var shifts []Shift
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("date >= ? AND date <= ?", monthStart, monthEnd).
		Order("date ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *repository) FindByDate(ctx context.Context, date time.Time) ([]Shift, error) {
	var shifts []Shift
	err := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("employee_id ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *repository) Delete(ctx context.Context, employeeID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Delete(&Shift{}, "employee_id = ? AND date = ?", employeeID, date).Error
}

func (r *repository) EmployeeExists(ctx context.Context, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
