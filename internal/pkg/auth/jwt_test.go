package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/timetable/internal/app/models"
	"github.com/yigit/timetable/internal/pkg/apperrors"
)

func newService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "timetable"})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newService(time.Hour)
	token, err := svc.GenerateToken(&models.User{ID: 42, Email: "admin@school.test", RoleType: models.RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ADMIN", claims.RoleType)
	assert.Equal(t, "42", claims.Subject)
}

func TestExpiredToken(t *testing.T) {
	svc := newService(-time.Minute)
	token, err := svc.GenerateToken(&models.User{ID: 1, RoleType: models.RoleTeacher})
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestForeignToken(t *testing.T) {
	token, err := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "timetable"}).
		GenerateToken(&models.User{ID: 1, RoleType: models.RoleTeacher})
	require.NoError(t, err)

	_, err = newService(time.Hour).ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	token, err = NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "elsewhere"}).
		GenerateToken(&models.User{ID: 1, RoleType: models.RoleTeacher})
	require.NoError(t, err)
	_, err = newService(time.Hour).ValidateAndExtractClaims(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		err    bool
	}{
		{"Bearer a.b.c", "a.b.c", false},
		{"a.b.c", "a.b.c", false},
		{"Bearer ", "", true},
		{"Basic dXNlcg==", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.err {
			assert.ErrorIs(t, err, ErrInvalidFormat, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}
