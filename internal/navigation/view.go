package navigation

import (
	"github.com/movers-solution/movers/internal/access"
	"github.com/movers-solution/movers/internal/session"
)

// Link is one entry of the navigation bar
type Link struct {
	ID    access.RouteID `json:"id"`
	Label string         `json:"label"`
	Path  string         `json:"path"`
}

// View is the rendered state of the navigation bar
type View struct {
	Brand      Link   `json:"brand"`
	Links      []Link `json:"links"`
	ShowLogout bool   `json:"show_logout"`
	Username   string `json:"username,omitempty"`
}

var brand = Link{ID: "home", Label: "Home", Path: "/"}

// Render builds the navigation bar for s from the policy table
func Render(p *access.Policy, s session.Session) View {
	visible := p.Visible(s)
	links := make([]Link, 0, len(visible))
	for _, r := range visible {
		links = append(links, Link{ID: r.ID, Label: r.Label, Path: r.Path})
	}

	v := View{
		Brand:      brand,
		Links:      links,
		ShowLogout: s.IsAuthenticated(),
	}
	if s.IsAuthenticated() {
		v.Username = s.Username
	}
	return v
}

// Has reports whether the view contains a link to route id
func (v View) Has(id access.RouteID) bool {
	for _, l := range v.Links {
		if l.ID == id {
			return true
		}
	}
	return false
}
