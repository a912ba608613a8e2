package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/emlak/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a back-office account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked" // too many failed logins
	UserStatusDeactivated UserStatus = "deactivated"
)

// Role decides what a user may change in the admin panel
type Role string

const (
	// RoleAdmin manages every resource of the tenant
	RoleAdmin Role = "ADMIN"
	// RoleConsultant manages listings only
	RoleConsultant Role = "CONSULTANT"
)

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleConsultant
}

const bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// User is an admin panel account.
// Consultants are linked to their public consultant profile.
type User struct {
	shared.TenantAggregateRoot
	Username       string
	Email          string
	PasswordHash   string
	DisplayName    string
	Role           Role
	ConsultantID   *uuid.UUID
	Status         UserStatus
	LastLoginAt    *time.Time
	LastLoginIP    string
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user
func NewUser(tenantID uuid.UUID, username, password string, role Role) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or CONSULTANT")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	user := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        passwordHash,
		Role:                role,
		Status:              UserStatusActive,
	}
	user.AddDomainEvent(NewUserCreatedEvent(user))

	return user, nil
}

// SetEmail sets the user's email
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" {
		if len(email) > 200 {
			return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
		}
	}
	u.Email = email
	u.touch()
	return nil
}

// SetDisplayName sets the name shown in the admin panel
func (u *User) SetDisplayName(displayName string) error {
	displayName = strings.TrimSpace(displayName)
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	u.DisplayName = displayName
	u.touch()
	return nil
}

// LinkConsultant links a consultant account to its public profile
func (u *User) LinkConsultant(consultantID *uuid.UUID) {
	u.ConsultantID = consultantID
	u.touch()
}

// ChangeRole switches the user's role
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be ADMIN or CONSULTANT")
	}
	u.Role = role
	u.touch()
	return nil
}

// ChangePassword changes the password after checking the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.touch()
	u.AddDomainEvent(NewUserPasswordChangedEvent(u))
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Activate re-enables a deactivated or locked account
func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	old := u.Status
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.touch()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, UserStatusActive))
	return nil
}

// Deactivate disables the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	old := u.Status
	u.Status = UserStatusDeactivated
	u.touch()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, UserStatusDeactivated))
	return nil
}

// Lock locks the account; a zero duration locks it until an admin activates it
func (u *User) Lock(duration time.Duration) error {
	if u.Status == UserStatusDeactivated {
		return shared.NewDomainError("USER_DEACTIVATED", "Cannot lock a deactivated user")
	}
	old := u.Status
	u.Status = UserStatusLocked
	u.LockedUntil = nil
	if duration > 0 {
		until := time.Now().Add(duration)
		u.LockedUntil = &until
	}
	u.touch()
	u.AddDomainEvent(NewUserStatusChangedEvent(u, old, UserStatusLocked))
	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess(ip string) {
	now := time.Now()
	u.LastLoginAt = &now
	u.LastLoginIP = ip
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		// the lock has expired, otherwise CanLogin would have refused
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.touch()
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.touch()
	if u.FailedAttempts >= maxAttempts {
		_ = u.Lock(lockDuration)
		return true
	}
	return false
}

// IsLocked reports whether the account is currently locked
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin reports whether the account may log in right now
func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

// IsAdmin reports whether the user has the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// GetDisplayNameOrUsername returns display name if set, otherwise username
func (u *User) GetDisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func (u *User) touch() {
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	switch {
	case username == "":
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	case len(username) < 3:
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	case len(username) > 100:
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	case !usernamePattern.MatchString(username):
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}
	if !strings.ContainsAny(password, "0123456789") || !strings.ContainsFunc(password, isLetter) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
