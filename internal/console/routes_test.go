package console

import (
	"testing"

	"lexron-admin/internal/session"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		state session.State
		want  Decision
	}{
		{"unknown state commits nothing", PathProducts, session.Unknown, Decision{View: ViewLoading, Path: PathProducts}},
		{"home", "/", session.Unauthenticated, Decision{View: ViewHome, Path: PathHome}},
		{"login form", PathLogin, session.Unauthenticated, Decision{View: ViewLogin, Path: PathLogin}},
		{"register form", PathRegister, session.Unauthenticated, Decision{View: ViewRegister, Path: PathRegister}},
		{"login while signed in", PathLogin, session.Authenticated, Decision{View: ViewDashboard, Path: PathDashboard, Redirected: true}},
		{"register while signed in", PathRegister, session.Authenticated, Decision{View: ViewDashboard, Path: PathDashboard, Redirected: true}},
		{"admin index", PathAdmin, session.Authenticated, Decision{View: ViewDashboard, Path: PathDashboard, Redirected: true}},
		{"admin index signed out", PathAdmin, session.Unauthenticated, Decision{View: ViewLogin, Path: PathLogin, Redirected: true}},
		{"products", PathProducts, session.Authenticated, Decision{View: ViewProducts, Path: PathProducts}},
		{"products signed out", PathProducts, session.Unauthenticated, Decision{View: ViewLogin, Path: PathLogin, Redirected: true}},
		{"unknown admin path", "/admin/orders", session.Authenticated, Decision{View: ViewDashboard, Path: PathDashboard, Redirected: true}},
		{"unknown admin path signed out", "/admin/orders", session.Unauthenticated, Decision{View: ViewLogin, Path: PathLogin, Redirected: true}},
		{"trailing slash", "/admin/brands/", session.Authenticated, Decision{View: ViewBrands, Path: PathBrands}},
		{"anything else", "/checkout", session.Authenticated, Decision{View: ViewHome, Path: PathHome, Redirected: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.path, tt.state))
		})
	}
}

// A signed-out admin never lands inside the shell, whatever the path.
func TestProperty_SignedOutNeverReachesShell(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("unauthenticated decisions are never admin views", prop.ForAll(
		func(suffix string) bool {
			d := Resolve("/admin/"+suffix, session.Unauthenticated)
			return !d.View.Admin()
		},
		gen.AlphaString(),
	))

	properties.Property("authenticated admin paths always land in the shell", prop.ForAll(
		func(suffix string) bool {
			d := Resolve("/admin/"+suffix, session.Authenticated)
			return d.View.Admin() || d.View == ViewLogin || d.View == ViewRegister
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
