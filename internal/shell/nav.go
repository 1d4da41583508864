package shell

import "github.com/parkandride/parkride/internal/model"

// Action is what a nav item does when chosen.
type Action string

const (
	ActionNavigate       Action = "navigate"
	ActionChangePassword Action = "password"
	ActionLogin          Action = "login"
	ActionLogout         Action = "logout"
)

// NavItem is one entry of the top bar.
type NavItem struct {
	Label  string
	Action Action
	// View is set for navigate items.
	View   View
	Active bool
}

// NavItems returns the top bar for the current user, left to right.
func (s *Shell) NavItems() []NavItem {
	u := s.auth.User()
	cur := s.View()
	nav := func(label string, v View) NavItem {
		return NavItem{Label: label, Action: ActionNavigate, View: v, Active: cur == v}
	}

	items := []NavItem{
		nav("Availability", Rates),
		nav("Vehicle In", VehicleIn),
		nav("Vehicle Out", VehicleOut),
	}
	if u.IsManager() {
		items = append(items, nav("Income", Income), nav("Officers", Officers))
	}
	if u.IsFireOfficer() {
		items = append(items, NavItem{Label: "Change Password", Action: ActionChangePassword})
	}
	if u == nil {
		return append(items, NavItem{Label: "Login", Action: ActionLogin})
	}
	return append(items, NavItem{Label: "Logout", Action: ActionLogout})
}

// RoleLabel is how the top bar names a user's role.
func RoleLabel(u *model.User) string {
	switch {
	case u == nil:
		return "guest"
	case u.IsManager():
		return "Manager"
	}
	return "Fire Officer"
}
