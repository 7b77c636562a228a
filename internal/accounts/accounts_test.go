package accounts

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"salon-backend/internal/apperror"
	"salon-backend/internal/models"
	"salon-backend/internal/policy"
	"salon-backend/internal/store/storetest"
	"salon-backend/pkg/utils"
)

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		pw string
		ok bool
	}{
		{"Secret123", true},
		{"Sh0rt", false},
		{"alllower123", false},
		{"ALLUPPER123", false},
		{"NoDigitsHere", false},
	}
	for _, tc := range cases {
		err := ValidatePassword(tc.pw)
		if tc.ok != (err == nil) {
			t.Errorf("%q: err=%v", tc.pw, err)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		in, want string
		ok       bool
	}{
		{"", "", true},
		{"(555) 123-4567", "5551234567", true},
		{"+44 20.7946.0958", "+442079460958", true},
		{"12345", "", false},
		{"555-CALL-NOW", "", false},
		{"+1234567890123456", "", false},
	}
	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		if tc.ok != (err == nil) || got != tc.want {
			t.Errorf("%q: got %q err=%v", tc.in, got, err)
		}
	}
}

func newManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(storetest.NewStore(t), "test-secret", time.Hour, zap.NewNop())
}

func TestRegisterAndLogin(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()

	in := models.RegisterInput{Username: "alice", Email: "Alice@Example.com", Password: "Secret123", Phone: "555 123 4567"}
	user, err := m.Register(ctx, in)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != policy.RoleCustomer || user.Email != "alice@example.com" || user.Phone != "5551234567" {
		t.Fatalf("unexpected user: %+v", user)
	}

	dup := in
	dup.Email = "other@example.com"
	if _, err := m.Register(ctx, dup); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("duplicate username: got %v", err)
	}
	dup = in
	dup.Username = "alice2"
	if _, err := m.Register(ctx, dup); !apperror.Is(err, apperror.KindConflict) {
		t.Fatalf("duplicate email: got %v", err)
	}

	token, got, err := m.Login(ctx, models.LoginInput{Username: "alice", Password: "Secret123", FCMToken: "device-1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.FCMToken != "device-1" {
		t.Fatal("push token not stored")
	}
	actor, err := utils.ValidateToken("test-secret", token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if actor.UserID != user.ID || actor.Role != policy.RoleCustomer {
		t.Fatalf("token actor = %+v", actor)
	}

	if _, _, err := m.Login(ctx, models.LoginInput{Username: "alice", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, _, err := m.Login(ctx, models.LoginInput{Username: "nobody", Password: "Secret123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", err)
	}
}

func TestCreateUserIsAdminOnly(t *testing.T) {
	m := newManager(t)
	ctx := context.Background()
	in := models.CreateUserInput{
		RegisterInput: models.RegisterInput{Username: "stylist", Email: "stylist@example.com", Password: "Secret123"},
		Role:          "Staff",
	}

	_, err := m.CreateUser(ctx, policy.Actor{UserID: 5, Role: policy.RoleStaff}, in)
	if !apperror.Is(err, apperror.KindAuthorization) {
		t.Fatalf("staff provisioning: got %v", err)
	}

	user, err := m.CreateUser(ctx, policy.Actor{UserID: 1, Role: policy.RoleAdmin}, in)
	if err != nil {
		t.Fatalf("admin provisioning: %v", err)
	}
	if user.Role != policy.RoleStaff {
		t.Fatalf("role = %s", user.Role)
	}

	in.Username, in.Email, in.Role = "x", "x@example.com", "Owner"
	if _, err := m.CreateUser(ctx, policy.Actor{UserID: 1, Role: policy.RoleAdmin}, in); !apperror.Is(err, apperror.KindValidation) {
		t.Fatalf("unknown role: got %v", err)
	}
}
