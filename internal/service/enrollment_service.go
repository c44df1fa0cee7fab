package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type enrollmentRepository interface {
	Upsert(ctx context.Context, enrollment *models.Enrollment) error
	Deactivate(ctx context.Context, userID, programType string, location *string) (bool, error)
}

type profileFinder interface {
	FindByID(ctx context.Context, id string) (*models.Profile, error)
}

// EnrollmentService lets administrators place people in program cohorts.
type EnrollmentService struct {
	repo      enrollmentRepository
	profiles  profileFinder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, profiles profileFinder, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &EnrollmentService{repo: repo, profiles: profiles, validator: validate, logger: logger}
}

// Enroll activates the enrollment described by req, creating it when needed.
func (s *EnrollmentService) Enroll(ctx context.Context, req dto.EnrollmentRequest) (*models.Enrollment, error) {
	enrollment, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if _, err := s.profiles.FindByID(ctx, enrollment.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	if err := s.repo.Upsert(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save enrollment")
	}
	s.logger.Info("enrollment activated",
		zap.String("user_id", enrollment.UserID),
		zap.String("program_type", enrollment.ProgramType))
	return enrollment, nil
}

// Unenroll deactivates the enrollment described by req.
func (s *EnrollmentService) Unenroll(ctx context.Context, req dto.EnrollmentRequest) error {
	enrollment, err := s.normalize(req)
	if err != nil {
		return err
	}
	found, err := s.repo.Deactivate(ctx, enrollment.UserID, enrollment.ProgramType, enrollment.Location)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate enrollment")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "active enrollment not found")
	}
	s.logger.Info("enrollment deactivated",
		zap.String("user_id", enrollment.UserID),
		zap.String("program_type", enrollment.ProgramType))
	return nil
}

// normalize trims the request and maps an empty location to NULL, meaning
// every location of the program.
func (s *EnrollmentService) normalize(req dto.EnrollmentRequest) (*models.Enrollment, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.ProgramType = strings.TrimSpace(req.ProgramType)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	var location *string
	if req.Location != nil {
		location = optionalString(*req.Location)
	}
	return &models.Enrollment{UserID: req.UserID, ProgramType: req.ProgramType, Location: location, Active: true}, nil
}
