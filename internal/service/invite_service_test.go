package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/youth-activities-api/internal/dto"
	"github.com/noah-isme/youth-activities-api/internal/models"
	"github.com/noah-isme/youth-activities-api/internal/repository"
	appErrors "github.com/noah-isme/youth-activities-api/pkg/errors"
)

type inviteRepoStub struct {
	invites   map[string]models.StaffInvite
	redeemed  []string
	redeemErr error
}

func (s *inviteRepoStub) List(ctx context.Context) ([]models.StaffInvite, error) {
	var out []models.StaffInvite
	for _, inv := range s.invites {
		out = append(out, inv)
	}
	return out, nil
}

func (s *inviteRepoStub) ListAudit(ctx context.Context, limit int) ([]models.StaffInviteAudit, error) {
	return nil, nil
}

func (s *inviteRepoStub) FindByID(ctx context.Context, id string) (*models.StaffInvite, error) {
	inv, ok := s.invites[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &inv, nil
}

func (s *inviteRepoStub) Create(ctx context.Context, invite *models.StaffInvite) error {
	if s.invites == nil {
		s.invites = map[string]models.StaffInvite{}
	}
	s.invites[invite.ID] = *invite
	return nil
}

func (s *inviteRepoStub) Redeem(ctx context.Context, inviteID, userID string, now time.Time) (*models.StaffInvite, error) {
	if s.redeemErr != nil {
		return nil, s.redeemErr
	}
	inv := s.invites[inviteID]
	if !inv.Usable(now) {
		return nil, repository.ErrInviteUnavailable
	}
	inv.Uses++
	s.invites[inviteID] = inv
	s.redeemed = append(s.redeemed, userID)
	return &inv, nil
}

func newTestInviteService(repo *inviteRepoStub) *InviteService {
	svc := NewInviteService(repo, nil, nil)
	svc.cost = bcrypt.MinCost
	svc.now = func() time.Time { return reminderNow }
	return svc
}

func TestInviteCreateAndRedeem(t *testing.T) {
	repo := &inviteRepoStub{}
	svc := newTestInviteService(repo)

	created, err := svc.Create(context.Background(), "admin-1", dto.CreateInviteRequest{Role: models.RoleVolunteer, ExpiresInDays: 7, MaxUses: 1})
	require.NoError(t, err)
	id, secret, ok := strings.Cut(created.InviteCode, ".")
	require.True(t, ok)
	assert.Equal(t, created.ID, id)
	assert.NotEqual(t, secret, repo.invites[id].SecretHash)
	assert.Equal(t, reminderNow.AddDate(0, 0, 7), *created.ExpiresAt)
	assert.Equal(t, "admin-1", *created.CreatedBy)

	resp, err := svc.Redeem(context.Background(), "u9", dto.RedeemInviteRequest{Code: created.InviteCode})
	require.NoError(t, err)
	assert.Equal(t, models.RoleVolunteer, resp.Role)
	assert.Equal(t, []string{"u9"}, repo.redeemed)

	_, err = svc.Redeem(context.Background(), "u10", dto.RedeemInviteRequest{Code: created.InviteCode})
	assert.ErrorIs(t, err, appErrors.ErrInviteExhausted)
}

func TestInviteRedeemRejectsBadCodes(t *testing.T) {
	repo := &inviteRepoStub{}
	svc := newTestInviteService(repo)
	created, err := svc.Create(context.Background(), "admin-1", dto.CreateInviteRequest{Role: models.RoleStaff, ExpiresInDays: 1, MaxUses: 3})
	require.NoError(t, err)

	for _, code := range []string{"", "no-dot", created.ID + ".wrong", "unknown.secret", created.ID + "."} {
		_, err := svc.Redeem(context.Background(), "u1", dto.RedeemInviteRequest{Code: code})
		assert.ErrorIs(t, err, appErrors.ErrValidation, code)
	}
	assert.Empty(t, repo.redeemed)
}

func TestInviteCreateValidation(t *testing.T) {
	svc := newTestInviteService(&inviteRepoStub{})
	cases := []dto.CreateInviteRequest{
		{Role: models.RoleParticipant, ExpiresInDays: 1, MaxUses: 1},
		{Role: models.RoleAdmin, ExpiresInDays: 0, MaxUses: 1},
		{Role: models.RoleAdmin, ExpiresInDays: 1, MaxUses: 0},
	}
	for _, req := range cases {
		_, err := svc.Create(context.Background(), "admin-1", req)
		assert.ErrorIs(t, err, appErrors.ErrValidation)
	}
}

func TestInviteListAndAuditNeverNil(t *testing.T) {
	svc := newTestInviteService(&inviteRepoStub{})
	invites, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, invites)

	audit, err := svc.Audit(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, audit)
}
