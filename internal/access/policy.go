// Package access decides which navigation routes a session may see.
//
// A Policy is a table from role to an ordered list of route IDs. Anonymous
// sessions use the Anonymous entry. Authenticated sessions use the entry for
// their role, or the Authenticated entry when their role has none.
package access

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/movers-solution/movers/internal/session"
)

// RouteID names a navigable target
type RouteID string

const (
	RouteAdminDashboard RouteID = "admin_dashboard"
	RouteInventory      RouteID = "inventory"
	RouteQuotes         RouteID = "quotes"
	RouteMoves          RouteID = "moves"
	RouteLogin          RouteID = "login"
	RouteRegister       RouteID = "register"
)

var ErrUnknownRoute = errors.New("unknown route")

// Route is a navigation link target
type Route struct {
	ID    RouteID
	Label string
	Path  string
	// Public routes are the only ones an anonymous session may be given
	Public bool
}

var routes = map[RouteID]Route{
	RouteAdminDashboard: {ID: RouteAdminDashboard, Label: "Admin Dashboard", Path: "/admin/dashboard"},
	RouteInventory:      {ID: RouteInventory, Label: "Inventory", Path: "/inventory"},
	RouteQuotes:         {ID: RouteQuotes, Label: "Quotes", Path: "/quotes"},
	RouteMoves:          {ID: RouteMoves, Label: "Moves", Path: "/moves"},
	RouteLogin:          {ID: RouteLogin, Label: "Login", Path: "/login", Public: true},
	RouteRegister:       {ID: RouteRegister, Label: "Register", Path: "/register", Public: true},
}

// Lookup returns the route registered under id
func Lookup(id RouteID) (Route, error) {
	r, ok := routes[id]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, id)
	}
	return r, nil
}

// GatedRoutes returns the routes that require an authenticated session
func GatedRoutes() []Route {
	return []Route{
		routes[RouteAdminDashboard],
		routes[RouteInventory],
		routes[RouteQuotes],
		routes[RouteMoves],
	}
}

// Policy maps roles to the routes they may see
type Policy struct {
	Anonymous     []RouteID                  `yaml:"anonymous"`
	Authenticated []RouteID                  `yaml:"authenticated"`
	Roles         map[session.Role][]RouteID `yaml:"roles"`
}

// DefaultPolicy reproduces the site's navigation: every authenticated role
// sees Admin Dashboard, users also see Inventory, Quotes and Moves, movers
// see Quotes and Moves.
func DefaultPolicy() *Policy {
	return &Policy{
		Anonymous:     []RouteID{RouteLogin, RouteRegister},
		Authenticated: []RouteID{RouteAdminDashboard},
		Roles: map[session.Role][]RouteID{
			session.RoleUser:  {RouteAdminDashboard, RouteInventory, RouteQuotes, RouteMoves},
			session.RoleMover: {RouteAdminDashboard, RouteQuotes, RouteMoves},
		},
	}
}

// LoadPolicy reads a YAML policy file. An empty path yields DefaultPolicy.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes and validates a YAML policy
func ParsePolicy(data []byte) (*Policy, error) {
	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks that every route ID is known, anonymous sessions only get
// public routes and authenticated sessions never get public ones.
func (p *Policy) Validate() error {
	for _, id := range p.Anonymous {
		r, err := Lookup(id)
		if err != nil {
			return fmt.Errorf("anonymous: %w", err)
		}
		if !r.Public {
			return fmt.Errorf("anonymous: route %q requires authentication", id)
		}
	}

	check := func(scope string, ids []RouteID) error {
		for _, id := range ids {
			r, err := Lookup(id)
			if err != nil {
				return fmt.Errorf("%s: %w", scope, err)
			}
			if r.Public {
				return fmt.Errorf("%s: route %q is for anonymous sessions", scope, id)
			}
		}
		return nil
	}

	if err := check("authenticated", p.Authenticated); err != nil {
		return err
	}
	for role, ids := range p.Roles {
		if role == session.RoleNone {
			return fmt.Errorf("roles: empty role name")
		}
		if err := check(fmt.Sprintf("roles.%s", role), ids); err != nil {
			return err
		}
	}
	return nil
}

// Visible returns the routes s may see, in display order
func (p *Policy) Visible(s session.Session) []Route {
	ids := p.routeIDs(s)
	out := make([]Route, 0, len(ids))
	for _, id := range ids {
		if r, ok := routes[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Allows reports whether s may see route id
func (p *Policy) Allows(s session.Session, id RouteID) bool {
	for _, candidate := range p.routeIDs(s) {
		if candidate == id {
			return true
		}
	}
	return false
}

func (p *Policy) routeIDs(s session.Session) []RouteID {
	if !s.IsAuthenticated() {
		return p.Anonymous
	}
	if ids, ok := p.Roles[s.Role]; ok {
		return ids
	}
	return p.Authenticated
}
