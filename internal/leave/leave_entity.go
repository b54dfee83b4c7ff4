package leave

import (
	"time"

	"github.com/gistshu/chr/internal/shift"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
	StatusCanceled = "CANCELLED"
)

// leaveKinds memetakan jenis cuti ke tipe shift non-kerja yang ditulis
// ke jadwal saat pengajuan disetujui.
var leaveKinds = map[string]bool{
	shift.TypeSick:      true,
	shift.TypePersonal:  true,
	shift.TypeComp:      true,
	shift.TypeAnnual:    true,
	shift.TypeMaternity: true,
	shift.TypePrenatal:  true,
	shift.TypePaternity: true,
	shift.TypeInjury:    true,
	shift.TypeFamily:    true,
}

// IsLeaveKind melaporkan apakah t jenis cuti yang bisa diajukan.
func IsLeaveKind(t string) bool {
	return leaveKinds[t]
}

type Leave struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_leaves_employee_dates"`

	LeaveType string    `gorm:"type:varchar(30);not null"`
	StartDate time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	EndDate   time.Time `gorm:"type:date;not null;index:idx_leaves_employee_dates"`
	TotalDays int       `gorm:"type:int;not null;default:1"`
	Reason    string    `gorm:"type:text"`

	Status          string  `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	ApprovedBy      *string `gorm:"type:varchar(100)"`
	RejectionReason *string `gorm:"type:text"`

	CreatedAt  time.Time
	UpdatedAt  time.Time
	ApprovedAt *time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index:idx_leaves_deleted_at"`
}

func (Leave) TableName() string {
	return "leaves"
}
