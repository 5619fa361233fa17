package auth

// Rutas de redirección del guard.
const (
	LoginPath   = "/login"
	DefaultPath = "/dashboard"
)

// Decision resultado del guard de rutas.
type Decision struct {
	Allow      bool
	RedirectTo string
}

// Evaluate decide el acceso a una ruta protegida. Sin usuario (incluido loading) redirige a
// LoginPath; sin rol admin en una ruta de administración, a DefaultPath.
func Evaluate(s Snapshot, requireAdmin bool) Decision {
	if !s.Authenticated() {
		return Decision{RedirectTo: LoginPath}
	}
	if requireAdmin && !s.IsAdmin() {
		return Decision{RedirectTo: DefaultPath}
	}
	return Decision{Allow: true}
}
