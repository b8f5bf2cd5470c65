package access

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/movers-solution/movers/internal/session"
)

func ids(routes []Route) []RouteID {
	out := make([]RouteID, len(routes))
	for i, r := range routes {
		out[i] = r.ID
	}
	return out
}

func TestDefaultPolicy_Visible(t *testing.T) {
	p := DefaultPolicy()

	tests := []struct {
		name    string
		session session.Session
		want    []RouteID
	}{
		{
			name:    "anonymous",
			session: session.Empty(),
			want:    []RouteID{RouteLogin, RouteRegister},
		},
		{
			name: "anonymous with stale role",
			session: session.Session{
				Username: "ghost",
				Role:     session.RoleUser,
			},
			want: []RouteID{RouteLogin, RouteRegister},
		},
		{
			name:    "user",
			session: session.New("1", "alex", "alex@example.com", session.RoleUser),
			want:    []RouteID{RouteAdminDashboard, RouteInventory, RouteQuotes, RouteMoves},
		},
		{
			name:    "mover",
			session: session.New("2", "bob", "bob@example.com", session.RoleMover),
			want:    []RouteID{RouteAdminDashboard, RouteQuotes, RouteMoves},
		},
		{
			name:    "admin",
			session: session.New("3", "root", "admin@example.com", session.RoleAdmin),
			want:    []RouteID{RouteAdminDashboard},
		},
		{
			name:    "empty role",
			session: session.New("4", "x", "x@example.com", session.RoleNone),
			want:    []RouteID{RouteAdminDashboard},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(p.Visible(tt.session)))
		})
	}
}

func TestDefaultPolicy_Allows(t *testing.T) {
	p := DefaultPolicy()
	mover := session.New("2", "bob", "bob@example.com", session.RoleMover)

	assert.True(t, p.Allows(mover, RouteQuotes))
	assert.False(t, p.Allows(mover, RouteInventory))
	assert.False(t, p.Allows(mover, RouteLogin))
	assert.True(t, p.Allows(session.Empty(), RouteRegister))
	assert.False(t, p.Allows(session.Empty(), RouteAdminDashboard))
}

func TestDefaultPolicy_IsValid(t *testing.T) {
	require.NoError(t, DefaultPolicy().Validate())
}

func TestParsePolicy_GatesAdminDashboard(t *testing.T) {
	p, err := ParsePolicy([]byte(`
anonymous: [login, register]
authenticated: []
roles:
  user: [inventory, quotes, moves]
  mover: [quotes, moves]
  admin: [admin_dashboard]
`))
	require.NoError(t, err)

	user := session.New("1", "alex", "alex@example.com", session.RoleUser)
	admin := session.New("3", "root", "admin@example.com", session.RoleAdmin)
	other := session.New("5", "o", "o@example.com", session.Role("company"))

	assert.False(t, p.Allows(user, RouteAdminDashboard))
	assert.True(t, p.Allows(admin, RouteAdminDashboard))
	assert.Empty(t, p.Visible(other))
}

func TestParsePolicy_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown route", "roles:\n  user: [billing]\n"},
		{"gated route for anonymous", "anonymous: [moves]\n"},
		{"public route for role", "roles:\n  user: [login]\n"},
		{"public route for authenticated", "authenticated: [register]\n"},
		{"malformed", "roles: [user\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePolicy([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadPolicy(t *testing.T) {
	p, err := LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPolicy(), p)

	path := filepath.Join(t.TempDir(), "nav.yaml")
	require.NoError(t, os.WriteFile(path, []byte("anonymous: [login]\n"), 0644))
	p, err = LoadPolicy(path)
	require.NoError(t, err)
	assert.Equal(t, []RouteID{RouteLogin}, ids(p.Visible(session.Empty())))

	_, err = LoadPolicy(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	r, err := Lookup(RouteMoves)
	require.NoError(t, err)
	assert.Equal(t, "/moves", r.Path)

	_, err = Lookup("nope")
	assert.ErrorIs(t, err, ErrUnknownRoute)
}
