package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"pulsefit/fitness-tracker/internal/repository/memory"
)

const testSecret = "test-secret"

func newAuthService(store *memory.Store) AuthService {
	return NewAuthService(store, testSecret, 30*time.Minute)
}

func TestRegister(t *testing.T) {
	store := memory.New()
	svc := newAuthService(store)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if user.ID.IsZero() {
		t.Error("Register() returned user with zero ID")
	}
	if user.PasswordHash != "" {
		t.Error("Register() leaked password hash")
	}

	stored, err := store.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername() error: %v", err)
	}
	if stored.PasswordHash == "" || stored.PasswordHash == "supersecret" {
		t.Error("stored password is not hashed")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc := newAuthService(memory.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_, err := svc.Register(ctx, "alice", "other@example.com", "supersecret")
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("Register() error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(memory.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_, err := svc.Register(ctx, "bob", "alice@example.com", "supersecret")
	if !errors.Is(err, ErrUserAlreadyExists) {
		t.Errorf("Register() error = %v, want ErrUserAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newAuthService(memory.New())
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "alice@example.com", "supersecret")
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	token, user, err := svc.Login(ctx, "alice", "supersecret")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("Login() user ID = %s, want %s", user.ID.Hex(), registered.ID.Hex())
	}

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	if err != nil {
		t.Fatalf("ParseWithClaims() error: %v", err)
	}
	if !parsed.Valid {
		t.Error("issued token is not valid")
	}
	if claims.UserID != registered.ID.Hex() {
		t.Errorf("token uid = %s, want %s", claims.UserID, registered.ID.Hex())
	}
	if claims.ExpiresAt == nil {
		t.Fatal("token has no expiry")
	}
	lifetime := time.Until(claims.ExpiresAt.Time)
	if lifetime > 31*time.Minute || lifetime < 29*time.Minute {
		t.Errorf("token lifetime = %v, want about 30m", lifetime)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newAuthService(memory.New())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "alice@example.com", "supersecret"); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	_, _, err := svc.Login(ctx, "alice", "wrong-password")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login() error = %v, want ErrAuthenticationFailed", err)
	}
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newAuthService(memory.New())

	_, _, err := svc.Login(context.Background(), "nobody", "supersecret")
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Errorf("Login() error = %v, want ErrAuthenticationFailed", err)
	}
}
