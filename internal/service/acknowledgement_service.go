package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type acknowledgementRepository interface {
	Create(ctx context.Context, ack *models.PolicyAcknowledgement) (bool, error)
	Exists(ctx context.Context, userID, policySlug string) (bool, error)
}

// AcknowledgementService records governance policy acknowledgements.
type AcknowledgementService struct {
	repo   acknowledgementRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewAcknowledgementService constructs AcknowledgementService.
func NewAcknowledgementService(repo acknowledgementRepository, logger *zap.Logger) *AcknowledgementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AcknowledgementService{repo: repo, logger: logger, now: time.Now}
}

// Acknowledge stores the caller's acknowledgement together with a snapshot of
// their name and email. Acknowledging twice is not an error.
func (s *AcknowledgementService) Acknowledge(ctx context.Context, principal models.Principal, slug string) (*dto.AcknowledgementStatus, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "policy slug is required")
	}

	ack := &models.PolicyAcknowledgement{
		ID:             uuid.NewString(),
		UserID:         principal.UserID,
		PolicySlug:     slug,
		UserFullName:   optionalString(principal.FullName),
		UserEmail:      optionalString(principal.Email),
		AcknowledgedAt: s.now().UTC(),
	}
	created, err := s.repo.Create(ctx, ack)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save acknowledgement")
	}
	if created {
		s.logger.Info("policy acknowledged", zap.String("policy", slug), zap.String("user_id", principal.UserID))
	}
	return &dto.AcknowledgementStatus{PolicySlug: slug, Acknowledged: true}, nil
}

// Status reports whether the caller acknowledged the policy.
func (s *AcknowledgementService) Status(ctx context.Context, userID, slug string) (*dto.AcknowledgementStatus, error) {
	ok, err := s.repo.Exists(ctx, userID, slug)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load acknowledgement")
	}
	return &dto.AcknowledgementStatus{PolicySlug: slug, Acknowledged: ok}, nil
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
