package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/lab-manager-api/internal/models"
)

// SubmissionRepository persists practical submissions.
type SubmissionRepository interface {
	// GetByID returns the submission with its practical, the practical's lab and any mark.
	GetByID(ctx context.Context, id string) (models.Submission, error)
	GetByStudentAndPractical(ctx context.Context, studentID, practicalID string) (models.Submission, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error)
	ListByStudentAndLab(ctx context.Context, studentID, labID string) ([]models.Submission, error)
	CountByPractical(ctx context.Context, practicalID string) (int64, error)
	Create(ctx context.Context, submission *models.Submission) error
	Update(ctx context.Context, submission *models.Submission) error
	DeleteByStudentAndLab(ctx context.Context, studentID, labID string) error
}

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository instantiates the repository.
func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) GetByID(ctx context.Context, id string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Practical.Lab").
		Preload("Mark").
		Where("id = ?", id).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) GetByStudentAndPractical(ctx context.Context, studentID, practicalID string) (models.Submission, error) {
	var submission models.Submission
	if err := r.db.WithContext(ctx).
		Where("student_id = ? AND practical_id = ?", studentID, practicalID).
		First(&submission).Error; err != nil {
		return models.Submission{}, err
	}
	return submission, nil
}

func (r *submissionRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Practical.Lab").
		Preload("Mark").
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) ListByStudentAndLab(ctx context.Context, studentID, labID string) ([]models.Submission, error) {
	var submissions []models.Submission
	if err := r.db.WithContext(ctx).
		Preload("Practical").
		Preload("Mark").
		Joins("JOIN practicals ON practicals.id = submissions.practical_id").
		Where("submissions.student_id = ? AND practicals.lab_id = ?", studentID, labID).
		Order("practicals.deadline ASC").
		Find(&submissions).Error; err != nil {
		return nil, err
	}
	return submissions, nil
}

func (r *submissionRepository) CountByPractical(ctx context.Context, practicalID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Submission{}).Where("practical_id = ?", practicalID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *submissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(submission).Error
}

func (r *submissionRepository) Update(ctx context.Context, submission *models.Submission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(submission).Error
}

func (r *submissionRepository) DeleteByStudentAndLab(ctx context.Context, studentID, labID string) error {
	practicals := r.db.WithContext(ctx).Model(&models.Practical{}).Select("id").Where("lab_id = ?", labID)
	return r.db.WithContext(ctx).
		Where("student_id = ? AND practical_id IN (?)", studentID, practicals).
		Delete(&models.Submission{}).Error
}

// MarkRepository persists grading outcomes.
type MarkRepository interface {
	GetBySubmission(ctx context.Context, submissionID string) (models.Mark, error)
	Create(ctx context.Context, mark *models.Mark) error
	Update(ctx context.Context, mark *models.Mark) error
	DeleteByStudentAndLab(ctx context.Context, studentID, labID string) error
}

type markRepository struct {
	db *gorm.DB
}

// NewMarkRepository instantiates the repository.
func NewMarkRepository(db *gorm.DB) MarkRepository {
	return &markRepository{db: db}
}

func (r *markRepository) GetBySubmission(ctx context.Context, submissionID string) (models.Mark, error) {
	var mark models.Mark
	if err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).First(&mark).Error; err != nil {
		return models.Mark{}, err
	}
	return mark, nil
}

func (r *markRepository) Create(ctx context.Context, mark *models.Mark) error {
	return r.db.WithContext(ctx).Create(mark).Error
}

func (r *markRepository) Update(ctx context.Context, mark *models.Mark) error {
	return r.db.WithContext(ctx).Save(mark).Error
}

func (r *markRepository) DeleteByStudentAndLab(ctx context.Context, studentID, labID string) error {
	submissions := r.db.WithContext(ctx).Model(&models.Submission{}).
		Select("submissions.id").
		Joins("JOIN practicals ON practicals.id = submissions.practical_id").
		Where("submissions.student_id = ? AND practicals.lab_id = ?", studentID, labID)
	return r.db.WithContext(ctx).Where("submission_id IN (?)", submissions).Delete(&models.Mark{}).Error
}
