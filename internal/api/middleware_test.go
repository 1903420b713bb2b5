package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func signToken(t *testing.T, secret string, userID string, expiresAt time.Time) string {
	t.Helper()
	claims := jwtClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-30 * time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestAuthMiddlewareRejections(t *testing.T) {
	env := newTestEnv(t)
	userID := primitive.NewObjectID().Hex()

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{
			name:        "missing header",
			header:      "",
			wantMessage: "authorization header is missing",
		},
		{
			name:        "wrong scheme",
			header:      "Basic abc123",
			wantMessage: "authorization header format must be Bearer {token}",
		},
		{
			name:        "garbage token",
			header:      "Bearer not-a-jwt",
			wantMessage: "invalid token",
		},
		{
			name:        "expired token",
			header:      "Bearer " + signToken(t, testJWTSecret, userID, time.Now().Add(-time.Minute)),
			wantMessage: "token has expired",
		},
		{
			name:        "wrong signature",
			header:      "Bearer " + signToken(t, "some-other-secret", userID, time.Now().Add(time.Hour)),
			wantMessage: "invalid token",
		},
		{
			name:        "valid token without subject",
			header:      "Bearer " + signToken(t, testJWTSecret, "", time.Now().Add(time.Hour)),
			wantMessage: "invalid token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/workouts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			env.router.ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] != tt.wantMessage {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMessage)
			}
		})
	}
}

func TestAuthMiddlewareAcceptsFreshToken(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.registerAndLogin(t, "alice")

	rec := env.do(t, http.MethodGet, "/workouts", token, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated request status = %d, want 200", rec.Code)
	}
}
