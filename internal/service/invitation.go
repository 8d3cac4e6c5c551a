package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/drystore/nexus/internal/auth"
	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/mailer"
	"github.com/drystore/nexus/internal/models"
	"github.com/drystore/nexus/internal/snowflake"
)

const invitationTTL = 7 * 24 * time.Hour

// InvitationService manages the invite-only onboarding flow: admins create
// invitations, the system emails a tokenized link, and accepting the link
// creates the account.
type InvitationService struct {
	invitations database.InvitationRepository
	users       database.UserRepository
	profiles    database.ProfileRepository
	channels    database.ChannelRepository
	members     database.MemberRepository
	mail        mailer.Mailer
	snowflake   *snowflake.Generator
	baseURL     string
}

func NewInvitationService(
	invitations database.InvitationRepository,
	users database.UserRepository,
	profiles database.ProfileRepository,
	channels database.ChannelRepository,
	members database.MemberRepository,
	mail mailer.Mailer,
	gen *snowflake.Generator,
	baseURL string,
) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		users:       users,
		profiles:    profiles,
		channels:    channels,
		members:     members,
		mail:        mail,
		snowflake:   gen,
		baseURL:     strings.TrimRight(baseURL, "/"),
	}
}

// Create issues an invitation and emails the accept link. If the email
// cannot be delivered the invitation row is removed again, so a failed
// invite can simply be retried.
func (s *InvitationService) Create(ctx context.Context, inviterID int64, email string) (*models.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, BadRequest("INVALID_EMAIL", "a valid email address is required")
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to create invitation")
	}
	if existing != nil {
		return nil, Conflict("EMAIL_IN_USE", "a user with this email already exists")
	}

	inviter, err := s.users.GetByID(ctx, inviterID)
	if err != nil || inviter == nil {
		return nil, Internal("DB_ERROR", "failed to create invitation")
	}

	now := time.Now()
	inv := &models.Invitation{
		ID:        s.snowflake.Generate().Int64(),
		Email:     email,
		Token:     uuid.NewString(),
		InviterID: inviterID,
		Status:    models.InvitationPending,
		ExpiresAt: now.Add(invitationTTL),
		CreatedAt: now,
	}

	if err := s.invitations.Create(ctx, inv); err != nil {
		slog.Error("failed to create invitation", "error", err)
		return nil, Internal("DB_ERROR", "failed to create invitation")
	}

	acceptURL := fmt.Sprintf("%s/invitations/%s", s.baseURL, inv.Token)
	if err := s.mail.SendInvitation(email, inviter.Username, acceptURL); err != nil {
		slog.Error("failed to send invitation email", "email", email, "error", err)
		if delErr := s.invitations.Delete(ctx, inv.ID); delErr != nil {
			slog.Error("failed to roll back invitation", "invitationID", inv.ID, "error", delErr)
		}
		return nil, Internal("MAIL_ERROR", "failed to send invitation email")
	}

	if _, err := s.invitations.UpdateStatus(ctx, inv.ID, models.InvitationSent, models.InvitationPending); err != nil {
		slog.Error("failed to mark invitation sent", "invitationID", inv.ID, "error", err)
	} else {
		inv.Status = models.InvitationSent
	}
	return inv, nil
}

// GetByToken resolves an invitation for the public accept page. Expired or
// otherwise terminal invitations report gone; expiry is applied lazily on
// first access after the deadline.
func (s *InvitationService) GetByToken(ctx context.Context, token string) (*models.Invitation, error) {
	inv, err := s.invitations.GetByToken(ctx, token)
	if err != nil {
		slog.Error("failed to get invitation", "error", err)
		return nil, Internal("DB_ERROR", "failed to get invitation")
	}
	if inv == nil {
		return nil, NotFound("INVITATION_NOT_FOUND", "invitation not found")
	}

	if !inv.Status.Terminal() && time.Now().After(inv.ExpiresAt) {
		if _, err := s.invitations.UpdateStatus(ctx, inv.ID, models.InvitationExpired,
			models.InvitationPending, models.InvitationSent); err != nil {
			slog.Error("failed to expire invitation", "invitationID", inv.ID, "error", err)
		}
		inv.Status = models.InvitationExpired
	}

	if inv.Status.Terminal() {
		return nil, Gone("INVITATION_GONE", "this invitation is no longer valid")
	}
	return inv, nil
}

// Accept redeems an invitation: it creates the user account with a profile
// and joins them to every public channel. The invitation becomes accepted
// exactly once, two racing accepts cannot both create an account.
func (s *InvitationService) Accept(ctx context.Context, token, username, password, displayName string) (*models.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 || len(username) > 32 {
		return nil, BadRequest("INVALID_USERNAME", "username must be 3-32 characters")
	}
	if len(password) < 8 {
		return nil, BadRequest("WEAK_PASSWORD", "password must be at least 8 characters")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = username
	}

	inv, err := s.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to accept invitation")
	}
	if existing != nil {
		return nil, Conflict("USERNAME_TAKEN", "this username is already taken")
	}

	// Claim the invitation before creating the account so a concurrent
	// accept of the same token loses here.
	claimed, err := s.invitations.UpdateStatus(ctx, inv.ID, models.InvitationAccepted,
		models.InvitationPending, models.InvitationSent)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to accept invitation")
	}
	if !claimed {
		return nil, Gone("INVITATION_GONE", "this invitation is no longer valid")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		return nil, Internal("HASH_ERROR", "failed to accept invitation")
	}

	user := &models.User{
		ID:           s.snowflake.Generate().Int64(),
		Username:     username,
		Email:        inv.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		slog.Error("failed to create user", "error", err)
		return nil, Internal("DB_ERROR", "failed to accept invitation")
	}

	profile := &models.Profile{
		UserID:               user.ID,
		DisplayName:          displayName,
		Availability:         models.AvailabilityAvailable,
		Theme:                models.ThemeSystem,
		NotificationsEnabled: true,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		slog.Error("failed to create profile", "userID", user.ID, "error", err)
		return nil, Internal("DB_ERROR", "failed to accept invitation")
	}

	joinPublicChannels(ctx, s.channels, s.members, user.ID)
	return user, nil
}

// Cancel revokes a non-terminal invitation. Site admin only.
func (s *InvitationService) Cancel(ctx context.Context, invitationID int64) error {
	inv, err := s.invitations.GetByID(ctx, invitationID)
	if err != nil {
		return Internal("DB_ERROR", "failed to cancel invitation")
	}
	if inv == nil {
		return NotFound("INVITATION_NOT_FOUND", "invitation not found")
	}

	ok, err := s.invitations.UpdateStatus(ctx, invitationID, models.InvitationCancelled,
		models.InvitationPending, models.InvitationSent)
	if err != nil {
		return Internal("DB_ERROR", "failed to cancel invitation")
	}
	if !ok {
		return Conflict("ALREADY_RESOLVED", "this invitation has already been resolved")
	}
	return nil
}

// List returns all invitations. Site admin only.
func (s *InvitationService) List(ctx context.Context) ([]models.Invitation, error) {
	invs, err := s.invitations.List(ctx)
	if err != nil {
		slog.Error("failed to list invitations", "error", err)
		return nil, Internal("DB_ERROR", "failed to list invitations")
	}
	return invs, nil
}
