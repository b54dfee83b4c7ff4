package attendance

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusOnTime     = "ON_TIME"
	StatusLate       = "LATE"
	StatusEarlyLeave = "EARLY_LEAVE"
	StatusAbsent     = "ABSENT"
)

const (
	LocationGPS  = "GPS"
	LocationWifi = "WIFI"
)

const (
	// NoteAdminEdit ditambahkan sekali ke catatan saat admin mengubah jam manual
	NoteAdminEdit = "(Admin Entry)"
	// NoteManualEntry menandai record yang dibuat admin tanpa clock-in perangkat
	NoteManualEntry = "Manual Admin Entry"
)

// State turunan mesin reconciler per (employee, date)
const (
	StateUnscheduled        = "UNSCHEDULED"
	StateScheduledUnclocked = "SCHEDULED_UNCLOCKED"
	StateClockedUnverified  = "CLOCKED_UNVERIFIED"
	StateVerified           = "VERIFIED"
)

type Attendance struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_attendance_employee_date,unique"`
	Date       time.Time `gorm:"type:date;not null;index:idx_attendance_employee_date,unique"`

	// Jam mentah dari perangkat clock-in ("HH:MM"), nil jika belum ada
	CheckIn  *string `gorm:"type:varchar(5)"`
	CheckOut *string `gorm:"type:varchar(5)"`

	// Jam otoritatif hasil verifikasi admin
	FinalizedIn  *string `gorm:"type:varchar(5)"`
	FinalizedOut *string `gorm:"type:varchar(5)"`

	Status       string `gorm:"type:varchar(20);not null;default:'ON_TIME'"`
	LocationType string `gorm:"type:varchar(10)"`

	// Bukti lokasi dari perangkat saat clock-in
	WifiSSID    string  `gorm:"type:varchar(100)"`
	GpsLocation string  `gorm:"type:varchar(100)"`
	Distance    float64 `gorm:"type:numeric"`

	Note string `gorm:"type:text"`

	IsVerified      bool `gorm:"not null;default:false"`
	IsOvertime      bool `gorm:"not null;default:false"`
	OvertimeMinutes int  `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Attendance) TableName() string {
	return "attendance_records"
}

// State menurunkan posisi record pada mesin reconciler.
// StateUnscheduled hanya bisa ditentukan pemanggil yang tahu ada-tidaknya shift.
func (a *Attendance) State() string {
	if a.IsVerified {
		return StateVerified
	}
	return StateClockedUnverified
}
