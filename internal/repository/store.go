package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories backed by a single database handle.
// A Store obtained inside Transaction is bound to that transaction.
type Store interface {
	Users() UserRepository
	Students() StudentRepository
	Teachers() TeacherRepository
	Labs() LabRepository
	Timetables() TimetableRepository
	Notices() NoticeRepository
	Practicals() PracticalRepository
	Enrollments() EnrollmentRepository
	Submissions() SubmissionRepository
	Marks() MarkRepository
	Attendance() AttendanceRepository
	ActivityLogs() ActivityLogRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore constructs a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository               { return NewUserRepository(s.db) }
func (s *gormStore) Students() StudentRepository         { return NewStudentRepository(s.db) }
func (s *gormStore) Teachers() TeacherRepository         { return NewTeacherRepository(s.db) }
func (s *gormStore) Labs() LabRepository                 { return NewLabRepository(s.db) }
func (s *gormStore) Timetables() TimetableRepository     { return NewTimetableRepository(s.db) }
func (s *gormStore) Notices() NoticeRepository           { return NewNoticeRepository(s.db) }
func (s *gormStore) Practicals() PracticalRepository     { return NewPracticalRepository(s.db) }
func (s *gormStore) Enrollments() EnrollmentRepository   { return NewEnrollmentRepository(s.db) }
func (s *gormStore) Submissions() SubmissionRepository   { return NewSubmissionRepository(s.db) }
func (s *gormStore) Marks() MarkRepository               { return NewMarkRepository(s.db) }
func (s *gormStore) Attendance() AttendanceRepository    { return NewAttendanceRepository(s.db) }
func (s *gormStore) ActivityLogs() ActivityLogRepository { return NewActivityLogRepository(s.db) }

// Transaction runs fn on a store bound to one database transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}
