package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/internal/repository"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type inviteRepository interface {
	List(ctx context.Context) ([]models.StaffInvite, error)
	ListAudit(ctx context.Context, limit int) ([]models.StaffInviteAudit, error)
	FindByID(ctx context.Context, id string) (*models.StaffInvite, error)
	Create(ctx context.Context, invite *models.StaffInvite) error
	Redeem(ctx context.Context, inviteID, userID string, now time.Time) (*models.StaffInvite, error)
}

// InviteService issues and redeems one-time staff invite codes. Codes have the
// form <invite id>.<secret>; only a bcrypt hash of the secret is stored.
type InviteService struct {
	repo      inviteRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
	cost      int
}

// NewInviteService constructs InviteService.
func NewInviteService(repo inviteRepository, validate *validator.Validate, logger *zap.Logger) *InviteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &InviteService{repo: repo, validator: validate, logger: logger, now: time.Now, cost: bcrypt.DefaultCost}
}

// List returns all invites, newest first.
func (s *InviteService) List(ctx context.Context) ([]models.StaffInvite, error) {
	invites, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invites")
	}
	if invites == nil {
		invites = []models.StaffInvite{}
	}
	return invites, nil
}

// Audit returns the most recent redemptions.
func (s *InviteService) Audit(ctx context.Context, limit int) ([]models.StaffInviteAudit, error) {
	rows, err := s.repo.ListAudit(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list invite audit")
	}
	if rows == nil {
		rows = []models.StaffInviteAudit{}
	}
	return rows, nil
}

// Create issues a new invite. The returned code is never shown again.
func (s *InviteService) Create(ctx context.Context, createdBy string, req dto.CreateInviteRequest) (*models.CreatedInvite, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid invite payload")
	}

	secret, err := generateInviteSecret()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate invite secret")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.cost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash invite secret")
	}

	now := s.now().UTC()
	expiresAt := now.AddDate(0, 0, req.ExpiresInDays)
	invite := models.StaffInvite{
		ID:         uuid.NewString(),
		Role:       req.Role,
		SecretHash: string(hash),
		ExpiresAt:  &expiresAt,
		MaxUses:    req.MaxUses,
		CreatedBy:  optionalString(createdBy),
		CreatedAt:  now,
	}
	if err := s.repo.Create(ctx, &invite); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create invite")
	}
	s.logger.Info("staff invite created", zap.String("invite_id", invite.ID), zap.String("role", string(invite.Role)), zap.String("created_by", createdBy))
	return &models.CreatedInvite{StaffInvite: invite, InviteCode: invite.ID + "." + secret}, nil
}

// Redeem grants the invite's role to userID.
func (s *InviteService) Redeem(ctx context.Context, userID string, req dto.RedeemInviteRequest) (*dto.RedeemInviteResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid redeem payload")
	}
	id, secret, ok := strings.Cut(strings.TrimSpace(req.Code), ".")
	if !ok || id == "" || secret == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid invite code")
	}

	invite, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid invite code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invite")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(invite.SecretHash), []byte(secret)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid invite code")
	}

	redeemed, err := s.repo.Redeem(ctx, id, userID, s.now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInviteUnavailable):
			return nil, appErrors.Clone(appErrors.ErrInviteExhausted, "")
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid invite code")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to redeem invite")
	}
	s.logger.Info("staff invite redeemed", zap.String("invite_id", id), zap.String("user_id", userID), zap.String("role", string(redeemed.Role)))
	return &dto.RedeemInviteResponse{Role: redeemed.Role}, nil
}

func generateInviteSecret() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
