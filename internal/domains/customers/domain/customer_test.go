package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewCustomer_HashesPassword(t *testing.T) {
	c, err := NewCustomer("c1", "C-1001", Profile{FirstName: " Alex ", LastName: "Berg", Email: " Alex@Example.com "}, RoleAdmin, "correct-horse")
	require.NoError(t, err)
	require.Equal(t, "alex@example.com", c.Email)
	require.Equal(t, "Alex Berg", c.FullName())
	require.NotEqual(t, "correct-horse", c.PasswordHash)
	require.True(t, c.CheckPassword("correct-horse"))
	require.False(t, c.CheckPassword("wrong-horse"))
	require.False(t, c.CheckPassword(""))
	require.True(t, c.IsAdmin())
}

func TestNewCustomer_Validation(t *testing.T) {
	_, err := NewCustomer("c1", "C-1", Profile{Email: "nope"}, RoleCustomer, "long-enough")
	require.ErrorIs(t, err, ErrInvalidEmail)

	_, err = NewCustomer("c1", "C-1", Profile{Email: "a@b.se"}, RoleCustomer, "short")
	require.ErrorIs(t, err, ErrWeakPassword)

	_, err = NewCustomer("c1", "C-1", Profile{Email: "a@b.se"}, Role("owner"), "long-enough")
	require.ErrorIs(t, err, ErrInvalidRole)

	_, err = NewCustomer("", "C-1", Profile{Email: "a@b.se"}, RoleCustomer, "long-enough")
	require.ErrorIs(t, err, ErrEmptyID)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" ADMIN ")
	require.NoError(t, err)
	require.Equal(t, RoleAdmin, role)

	_, err = ParseRole("root")
	require.ErrorIs(t, err, ErrInvalidRole)
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s, err := NewSession("s1", "c1", now, time.Hour)
	require.NoError(t, err)
	require.False(t, s.Expired(now))
	require.False(t, s.Expired(now.Add(59*time.Minute)))
	require.True(t, s.Expired(now.Add(time.Hour)))

	_, err = NewSession("s1", "c1", now, 0)
	require.ErrorIs(t, err, ErrInvalidSession)
}
