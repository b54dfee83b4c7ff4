package shift

import (
	"time"

	"github.com/google/uuid"
)

type Shift struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_shift_employee_date,unique"`

	Date time.Time `gorm:"type:date;not null;index:idx_shift_employee_date,unique"`
	Type string    `gorm:"type:varchar(30);not null"`

	// Jam dalam "HH:MM". Tipe non-kerja selalu "-"/"-" (lihat Types).
	StartTime string `gorm:"type:varchar(5);not null"`
	EndTime   string `gorm:"type:varchar(5);not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Shift) TableName() string {
	return "shifts"
}
