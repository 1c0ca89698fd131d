package view

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/civicsnap/pkg/domain/interfaces"
	"github.com/secmon-lab/civicsnap/pkg/domain/model"
)

// NavLink is one entry of the navigation bar
type NavLink struct {
	Label  string
	Route  string
	Active bool
}

// NavbarView is what the navigation bar shows for the current session
type NavbarView struct {
	User      *model.User
	ShowAdmin bool
	Links     []NavLink
}

// Navbar summarises the session and handles logout
type Navbar struct {
	session interfaces.Session
	auth    interfaces.AuthClient
	nav     interfaces.Navigator
}

// NewNavbar creates the navigation bar
func NewNavbar(session interfaces.Session, auth interfaces.AuthClient, nav interfaces.Navigator) *Navbar {
	return &Navbar{session: session, auth: auth, nav: nav}
}

// View builds the links for the current route
func (n *Navbar) View(ctx context.Context, current string) NavbarView {
	user := n.session.Current(ctx)
	v := NavbarView{
		User:      user,
		ShowAdmin: n.session.IsAdmin(ctx),
	}

	links := []NavLink{
		{Label: "Home", Route: RouteHome},
		{Label: "Dashboard", Route: RouteDashboard},
		{Label: "Report Issue", Route: RouteReport},
	}
	if v.ShowAdmin {
		links = append(links, NavLink{Label: "Admin", Route: RouteAdminDashboard})
	}
	if user == nil {
		links = append(links, NavLink{Label: "Login", Route: RouteLogin})
	}
	for i := range links {
		links[i].Active = links[i].Route == current
	}
	v.Links = links
	return v
}

// Logout clears the session and returns to the home route
func (n *Navbar) Logout(ctx context.Context) error {
	if err := n.auth.Logout(ctx); err != nil {
		return goerr.Wrap(err, "failed to logout")
	}
	n.nav.Navigate(RouteHome)
	return nil
}
