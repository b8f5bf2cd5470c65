package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSession_Empty(t *testing.T) {
	s := Empty()
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.ID)
	assert.Equal(t, "", s.Username)
	assert.Equal(t, "", s.Email)
	assert.Equal(t, RoleNone, s.Role)
	assert.Equal(t, "", s.UserID())
}

func TestSession_CloneDoesNotAlias(t *testing.T) {
	s := New("1", "alex", "alex@example.com", RoleUser)
	c := s.Clone()
	*c.ID = "2"
	assert.Equal(t, "1", s.UserID())
}

func TestSession_Equal(t *testing.T) {
	a := New("1", "alex", "alex@example.com", RoleUser)
	assert.True(t, a.Equal(New("1", "alex", "alex@example.com", RoleUser)))
	assert.False(t, a.Equal(New("1", "alex", "alex@example.com", RoleMover)))
	assert.False(t, a.Equal(Empty()))
	assert.True(t, Empty().Equal(Session{}))
}

func TestNewKey_Unique(t *testing.T) {
	a, b := NewKey(), NewKey()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
}
