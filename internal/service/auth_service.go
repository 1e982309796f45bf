package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/lab-manager-api/internal/dto"
	"github.com/noah-isme/lab-manager-api/internal/models"
	"github.com/noah-isme/lab-manager-api/internal/repository"
)

// Identity is a user tagged with the profile its role selects. Exactly one of
// Student or Teacher is set for student and teacher accounts; admins carry neither.
type Identity struct {
	User    models.User
	Student *models.Student
	Teacher *models.Teacher
}

// ProfileID returns the id of the role profile, or empty for admins.
func (i Identity) ProfileID() string {
	switch {
	case i.Student != nil:
		return i.Student.ID
	case i.Teacher != nil:
		return i.Teacher.ID
	default:
		return ""
	}
}

// AuthConfig sets token signing parameters.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthService registers and authenticates users.
type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (dto.IdentityResponse, error)
}

type authService struct {
	store     repository.Store
	validator *validator.Validate
	cfg       AuthConfig
	logger    zerolog.Logger
	now       func() time.Time
}

// NewAuthService constructs the authentication service.
func NewAuthService(store repository.Store, validator *validator.Validate, cfg AuthConfig, logger zerolog.Logger) AuthService {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &authService{
		store:     store,
		validator: validator,
		cfg:       cfg,
		logger:    logger.With().Str("component", "auth_service").Logger(),
		now:       time.Now,
	}
}

// Register writes the user and its profile in a single transaction.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleAdmin {
		return dto.AuthResponse{}, invalid("role must be STUDENT or TEACHER")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.AuthResponse{}, storeErr("hash password", err)
	}

	identity := Identity{User: models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         role,
	}}

	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		if _, err := tx.Users().GetByEmail(ctx, identity.User.Email); err == nil {
			return &ConflictError{Entity: "user", Reason: "email already registered"}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr("find user", err)
		}

		if err := tx.Users().Create(ctx, &identity.User); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return &ConflictError{Entity: "user", Reason: "email already registered"}
			}
			return storeErr("create user", err)
		}

		switch role {
		case models.RoleStudent:
			student := models.Student{
				UserID:      identity.User.ID,
				Name:        strings.TrimSpace(req.Name),
				RollNo:      strings.TrimSpace(req.RollNo),
				PhoneNumber: strings.TrimSpace(req.PhoneNumber),
				BranchName:  strings.TrimSpace(req.BranchName),
				Semester:    req.Semester,
			}
			if err := tx.Students().Create(ctx, &student); err != nil {
				return storeErr("create student", err)
			}
			identity.Student = &student
		case models.RoleTeacher:
			teacher := models.Teacher{
				UserID:     identity.User.ID,
				Name:       strings.TrimSpace(req.Name),
				Department: strings.TrimSpace(req.Department),
			}
			if err := tx.Teachers().Create(ctx, &teacher); err != nil {
				return storeErr("create teacher", err)
			}
			identity.Teacher = &teacher
		}
		return nil
	})
	if err != nil {
		return dto.AuthResponse{}, passThrough("register", err)
	}

	s.logger.Info().Str("user_id", identity.User.ID).Str("role", string(role)).Msg("user registered")
	return s.issue(identity)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.store.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrInvalidCredentials
		}
		return dto.AuthResponse{}, storeErr("find user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	identity, err := s.loadIdentity(ctx, user)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	return s.issue(identity)
}

func (s *authService) Me(ctx context.Context, userID string) (dto.IdentityResponse, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return dto.IdentityResponse{}, lookupErr("user", err)
	}

	identity, err := s.loadIdentity(ctx, user)
	if err != nil {
		return dto.IdentityResponse{}, err
	}
	return dto.NewIdentityResponse(identity.User, identity.Student, identity.Teacher), nil
}

func (s *authService) loadIdentity(ctx context.Context, user models.User) (Identity, error) {
	identity := Identity{User: user}
	switch user.Role {
	case models.RoleStudent:
		student, err := s.store.Students().GetByUserID(ctx, user.ID)
		if err != nil {
			return Identity{}, lookupErr("student", err)
		}
		identity.Student = &student
	case models.RoleTeacher:
		teacher, err := s.store.Teachers().GetByUserID(ctx, user.ID)
		if err != nil {
			return Identity{}, lookupErr("teacher", err)
		}
		identity.Teacher = &teacher
	}
	return identity, nil
}

func (s *authService) issue(identity Identity) (dto.AuthResponse, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.cfg.TTL)

	claims := jwt.MapClaims{
		"sub":        identity.User.ID,
		"role":       string(identity.User.Role),
		"profile_id": identity.ProfileID(),
		"iat":        issuedAt.Unix(),
		"exp":        expiresAt.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return dto.AuthResponse{}, storeErr("sign token", err)
	}

	return dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC(),
		User:      dto.NewIdentityResponse(identity.User, identity.Student, identity.Teacher),
	}, nil
}
