package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

const TypeEmployeeNo = "employee_no"

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	GetNextValue(ctx context.Context, counterType string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetNextValue(ctx context.Context, counterType string) (int64, error) {
	var nextValue int64

	// Raw SQL untuk UPSERT + increment atomik agar aman dari race condition
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO clinic_counters (counter_type, last_value, updated_at)
		VALUES (?, 1, now())
		ON CONFLICT (counter_type) DO UPDATE
		SET last_value = clinic_counters.last_value + 1, updated_at = now()
		RETURNING last_value
	`, counterType).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}

// NextEmployeeNo mengambil nomor urut berikutnya dan memformatnya
// sebagai nomor pegawai klinik (E001, E002, ...).
func NextEmployeeNo(ctx context.Context, repo Repository) (string, error) {
	n, err := repo.GetNextValue(ctx, TypeEmployeeNo)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("E%03d", n), nil
}
