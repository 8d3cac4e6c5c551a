package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/drystore/nexus/internal/database"
	"github.com/drystore/nexus/internal/models"
)

// UserService handles the current user's account and profile, and the
// admin user management operations.
type UserService struct {
	users    database.UserRepository
	profiles database.ProfileRepository
}

func NewUserService(users database.UserRepository, profiles database.ProfileRepository) *UserService {
	return &UserService{users: users, profiles: profiles}
}

// Me combines the account with its profile for the /users/@me response.
type Me struct {
	models.User
	Profile *models.Profile `json:"profile"`
}

// GetMe returns the current user's account and profile.
func (s *UserService) GetMe(ctx context.Context, userID int64) (*Me, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		slog.Error("failed to get user", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get user")
	}
	if user == nil {
		return nil, NotFound("USER_NOT_FOUND", "user not found")
	}

	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		slog.Error("failed to get profile", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to get user")
	}
	return &Me{User: *user, Profile: profile}, nil
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers
// leave the stored value untouched.
type ProfileUpdate struct {
	DisplayName          *string              `json:"display_name"`
	Bio                  *string              `json:"bio"`
	Availability         *models.Availability `json:"availability"`
	Theme                *models.Theme        `json:"theme"`
	NotificationsEnabled *bool                `json:"notifications_enabled"`
	PositionID           *int64               `json:"position_id,string"`
}

// UpdateProfile applies a partial profile update for the current user.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to update profile")
	}
	if profile == nil {
		return nil, NotFound("PROFILE_NOT_FOUND", "profile not found")
	}

	if update.DisplayName != nil {
		name := strings.TrimSpace(*update.DisplayName)
		if name == "" || len(name) > 64 {
			return nil, BadRequest("INVALID_DISPLAY_NAME", "display name must be 1-64 characters")
		}
		profile.DisplayName = name
	}
	if update.Bio != nil {
		profile.Bio = *update.Bio
	}
	if update.Availability != nil {
		if !update.Availability.Valid() {
			return nil, BadRequest("INVALID_AVAILABILITY", "invalid availability value")
		}
		profile.Availability = *update.Availability
	}
	if update.Theme != nil {
		if !update.Theme.Valid() {
			return nil, BadRequest("INVALID_THEME", "invalid theme value")
		}
		profile.Theme = *update.Theme
	}
	if update.NotificationsEnabled != nil {
		profile.NotificationsEnabled = *update.NotificationsEnabled
	}
	if update.PositionID != nil {
		profile.PositionID = update.PositionID
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		slog.Error("failed to update profile", "userID", userID, "error", err)
		return nil, Internal("DB_ERROR", "failed to update profile")
	}
	return profile, nil
}

// ListUsers returns accounts for the admin console.
func (s *UserService) ListUsers(ctx context.Context, includeDeactivated bool, limit, offset int) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.List(ctx, includeDeactivated, limit, offset)
	if err != nil {
		slog.Error("failed to list users", "error", err)
		return nil, Internal("DB_ERROR", "failed to list users")
	}
	return users, nil
}

// AdminUserUpdate carries the admin-editable account fields.
type AdminUserUpdate struct {
	IsAdmin     *bool `json:"is_admin"`
	Deactivated *bool `json:"deactivated"`
}

// AdminUpdateUser changes an account's admin flag or deactivation state.
// Admins cannot strip their own admin flag or deactivate themselves.
func (s *UserService) AdminUpdateUser(ctx context.Context, actorID, targetID int64, update AdminUserUpdate) (*models.User, error) {
	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return nil, Internal("DB_ERROR", "failed to update user")
	}
	if user == nil {
		return nil, NotFound("USER_NOT_FOUND", "user not found")
	}

	if actorID == targetID {
		if update.IsAdmin != nil && !*update.IsAdmin {
			return nil, BadRequest("SELF_DEMOTION", "cannot remove your own admin access")
		}
		if update.Deactivated != nil && *update.Deactivated {
			return nil, BadRequest("SELF_DEACTIVATION", "cannot deactivate your own account")
		}
	}

	if update.IsAdmin != nil {
		user.IsAdmin = *update.IsAdmin
	}
	if update.Deactivated != nil {
		if *update.Deactivated {
			if user.DeactivatedAt == nil {
				now := time.Now()
				user.DeactivatedAt = &now
			}
		} else {
			user.DeactivatedAt = nil
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		slog.Error("failed to update user", "userID", targetID, "error", err)
		return nil, Internal("DB_ERROR", "failed to update user")
	}
	return user, nil
}
