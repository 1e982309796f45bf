package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// AttendanceRepository persists attendance records.
type AttendanceRepository interface {
	ListByStudentAndLab(ctx context.Context, studentID, labID string) ([]models.Attendance, error)
	// GetByDay expects day to be normalised with models.CalendarDay.
	GetByDay(ctx context.Context, studentID, labID string, day time.Time) (models.Attendance, error)
	Create(ctx context.Context, record *models.Attendance) error
	Update(ctx context.Context, record *models.Attendance) error
	DeleteByStudentAndLab(ctx context.Context, studentID, labID string) error
}

type attendanceRepository struct {
	db *gorm.DB
}

// NewAttendanceRepository instantiates the repository.
func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) ListByStudentAndLab(ctx context.Context, studentID, labID string) ([]models.Attendance, error) {
	var records []models.Attendance
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND lab_id = ?", studentID, labID).
		Order("date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *attendanceRepository) GetByDay(ctx context.Context, studentID, labID string, day time.Time) (models.Attendance, error) {
	var record models.Attendance
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND lab_id = ? AND date = ?", studentID, labID, day).
		First(&record).Error; err != nil {
		return models.Attendance{}, err
	}
	return record, nil
}

func (r *attendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepository) Update(ctx context.Context, record *models.Attendance) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *attendanceRepository) DeleteByStudentAndLab(ctx context.Context, studentID, labID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ? AND lab_id = ?", studentID, labID).
		Delete(&models.Attendance{}).Error
}
