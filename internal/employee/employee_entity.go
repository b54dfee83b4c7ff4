package employee

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
)

type Employee struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`

	// Nomor pegawai klinik (E001, E002, ...) dari counter atomik
	EmployeeNo string `gorm:"type:varchar(10);not null;uniqueIndex"`

	FullName   string `gorm:"type:varchar(120);not null"`
	Role       string `gorm:"type:varchar(20);not null;default:'EMPLOYEE'"`
	Department string `gorm:"type:varchar(60);not null"`
	JobTitle   string `gorm:"type:varchar(60);not null"`
	Phone      string `gorm:"type:varchar(30)"`

	// Gaji pokok disimpan dalam satuan terkecil untuk hindari floating error.
	BaseSalary int64 `gorm:"type:bigint;not null;default:0"`

	// Opt-in pensiun sukarela; potongan pensiun 0 tanpa ini
	PensionOptIn bool `gorm:"not null;default:false"`

	HireDate        time.Time  `gorm:"type:date;not null"`
	ResignationDate *time.Time `gorm:"type:date"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
