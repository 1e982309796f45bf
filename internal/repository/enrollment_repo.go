package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// EnrollmentRepository persists student-lab memberships.
type EnrollmentRepository interface {
	Get(ctx context.Context, studentID, labID string) (models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, studentID, labID string) error
	CountByLab(ctx context.Context, labID string) (int64, error)
	CountByLabs(ctx context.Context, labIDs []string) (map[string]int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository instantiates the repository.
func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Get(ctx context.Context, studentID, labID string) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND lab_id = ?", studentID, labID).
		First(&enrollment).Error; err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}

func (r *enrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(enrollment).Error
}

func (r *enrollmentRepository) Delete(ctx context.Context, studentID, labID string) error {
	result := r.db.WithContext(ctx).
		Where("student_id = ? AND lab_id = ?", studentID, labID).
		Delete(&models.Enrollment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *enrollmentRepository) CountByLab(ctx context.Context, labID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).Where("lab_id = ?", labID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *enrollmentRepository) CountByLabs(ctx context.Context, labIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(labIDs))
	if len(labIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		LabID string
		Total int64
	}
	if err := r.db.WithContext(ctx).Model(&models.Enrollment{}).
		Select("lab_id, COUNT(*) AS total").
		Where("lab_id IN ?", labIDs).
		Group("lab_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.LabID] = row.Total
	}
	return counts, nil
}
