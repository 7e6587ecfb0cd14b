package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifearrow/platform/internal/users"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := NewService("test-secret", time.Minute)

	signed, exp, err := svc.IssueAccessToken("user-1", users.RolePractitioner)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	claims, err := svc.ParseAccessToken(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, users.RolePractitioner, claims.Role)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	signed, _, err := NewService("secret-a", time.Minute).IssueAccessToken("user-1", users.RoleClient)
	require.NoError(t, err)

	_, err = NewService("secret-b", time.Minute).ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	// Constructed directly: NewService clamps non-positive TTLs.
	svc := &Service{secret: []byte("test-secret"), accessTTL: -time.Minute}

	signed, _, err := svc.IssueAccessToken("user-1", users.RoleClient)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(signed)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseRejectsGarbage(t *testing.T) {
	svc := NewService("test-secret", time.Minute)
	_, err := svc.ParseAccessToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name       string
		password   string
		minLen     int
		complexity bool
		wantErr    bool
	}{
		{"too short", "Ab1!", 8, false, true},
		{"long enough no complexity", "alllowercase", 8, false, false},
		{"complexity met 3 of 4", "Password1", 8, true, false},
		{"complexity met with symbol", "password1!", 8, true, false},
		{"complexity unmet", "passwordonly", 8, true, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password, tc.minLen, tc.complexity)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	require.NoError(t, err)
	b, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jo@example.com", NormalizeEmail("  Jo@Example.COM "))
}
