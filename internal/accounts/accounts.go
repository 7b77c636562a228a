// Package accounts registers users, provisions staff and admin accounts, and
// issues bearer tokens on login.
package accounts

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode"

	"go.uber.org/zap"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store"
	"salon-backend/pkg/utils"
)

// ErrInvalidCredentials is returned by Login for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

var (
	phoneFormatting = regexp.MustCompile(`[\s\-().]`)
	phonePattern    = regexp.MustCompile(`^\+?\d{10,15}$`)
)

// ValidatePassword enforces at least 8 characters with an upper case letter,
// a lower case letter and a digit.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return apperror.Validation("Password must be at least 8 characters long.")
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper {
		return apperror.Validation("Password must contain at least one uppercase letter.")
	}
	if !lower {
		return apperror.Validation("Password must contain at least one lowercase letter.")
	}
	if !digit {
		return apperror.Validation("Password must contain at least one digit.")
	}
	return nil
}

// NormalizePhone strips spaces, dashes, dots and parentheses and checks what
// remains is 10 to 15 digits with an optional leading +. Empty is allowed.
func NormalizePhone(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", nil
	}
	cleaned := phoneFormatting.ReplaceAllString(phone, "")
	if !phonePattern.MatchString(cleaned) {
		return "", apperror.Validation("Enter a valid phone number (10-15 digits, optional leading +).")
	}
	return cleaned, nil
}

type Manager struct {
	store    *store.Store
	secret   string
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewManager(st *store.Store, secret string, tokenTTL time.Duration, log *zap.Logger) *Manager {
	return &Manager{store: st, secret: secret, tokenTTL: tokenTTL, log: log.Named("accounts")}
}

// Register creates a Customer account.
func (m *Manager) Register(ctx context.Context, in models.RegisterInput) (*models.User, error) {
	return m.create(ctx, in, policy.RoleCustomer)
}

// CreateUser lets an admin provision an account with any role.
func (m *Manager) CreateUser(ctx context.Context, actor policy.Actor, in models.CreateUserInput) (*models.User, error) {
	if err := policy.Authorize(actor, policy.ActionManageCatalog, 0); err != nil {
		return nil, err
	}
	role, err := policy.ParseRole(in.Role)
	if err != nil {
		return nil, apperror.Validation("Role must be one of: Admin, Staff, Customer.")
	}
	return m.create(ctx, in.RegisterInput, role)
}

func (m *Manager) create(ctx context.Context, in models.RegisterInput, role policy.Role) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" {
		return nil, apperror.Validation("Username and email are required.")
	}
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	phone, err := NormalizePhone(in.Phone)
	if err != nil {
		return nil, err
	}

	usernameTaken, emailTaken, err := m.store.UsernameOrEmailTaken(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if usernameTaken {
		return nil, apperror.Conflict("A user with that username already exists.")
	}
	if emailTaken {
		return nil, apperror.Conflict("A user with that email already exists.")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, apperror.Internal(err, "Could not process password.")
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         role,
		Phone:        phone,
	}
	// unique indexes still catch a concurrent signup with the same name
	if err := m.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	m.log.Info("user created", zap.Uint64("user_id", user.ID), zap.Stringer("role", role))
	return user, nil
}

// Login checks the credentials, stores the push token if one is sent, and
// returns a signed bearer token.
func (m *Manager) Login(ctx context.Context, in models.LoginInput) (string, *models.User, error) {
	user, err := m.store.FindUserByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !utils.CheckPassword(in.Password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}

	if in.FCMToken != "" && in.FCMToken != user.FCMToken {
		if err := m.store.UpdateFCMToken(ctx, user.ID, in.FCMToken); err != nil {
			m.log.Warn("could not store push token", zap.Uint64("user_id", user.ID), zap.Error(err))
		} else {
			user.FCMToken = in.FCMToken
		}
	}

	token, err := utils.GenerateToken(m.secret, m.tokenTTL, user.ID, user.Role)
	if err != nil {
		return "", nil, apperror.Internal(err, "Could not issue token.")
	}
	return token, user, nil
}

func (m *Manager) Profile(ctx context.Context, actor policy.Actor) (*models.User, error) {
	return m.store.GetUser(ctx, actor.UserID)
}
