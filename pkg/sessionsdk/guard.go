package sessionsdk

// Decision is the outcome of gating a protected view against the session.
type Decision int

const (
	// DecisionWait: initial rehydration has not settled. Render a neutral
	// waiting indicator and, critically, do not redirect yet.
	DecisionWait Decision = iota
	// DecisionAllow: render the protected content.
	DecisionAllow
	// DecisionRedirectLogin: no session; go to the login destination.
	DecisionRedirectLogin
	// DecisionRedirectUnauthorized: authenticated but the role is not
	// acceptable; go to the unauthorized destination.
	DecisionRedirectUnauthorized
)

func (d Decision) String() string {
	switch d {
	case DecisionWait:
		return "wait"
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectUnauthorized:
		return "redirect_unauthorized"
	default:
		return "unknown"
	}
}

// Decide gates a render against a session snapshot. With no required roles
// any authenticated user passes. The ordering is load-bearing: the loading
// check comes first so a guard can never bounce a user whose persisted
// session simply hasn't been read yet.
func Decide(st State, requiredRoles ...string) Decision {
	if st.Loading {
		return DecisionWait
	}

	if !st.IsAuthenticated || st.User == nil {
		return DecisionRedirectLogin
	}

	if len(requiredRoles) == 0 {
		return DecisionAllow
	}
	for _, rol := range requiredRoles {
		if st.User.Rol == rol {
			return DecisionAllow
		}
	}
	return DecisionRedirectUnauthorized
}

// GuardConfig names the two redirect destinations. Neither destination may
// itself sit behind a guard with the same requirements, or redirects loop.
type GuardConfig struct {
	LoginPath        string // default /login
	UnauthorizedPath string // default /no-autorizado
}

// Guard binds Decide to a Manager and a Navigator: one call per protected
// view, one redirect at most per call.
type Guard struct {
	manager *Manager
	nav     Navigator
	cfg     GuardConfig
}

// NewGuard creates a guard over the manager.
func NewGuard(manager *Manager, nav Navigator, cfg GuardConfig) *Guard {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/login"
	}
	if cfg.UnauthorizedPath == "" {
		cfg.UnauthorizedPath = "/no-autorizado"
	}
	return &Guard{manager: manager, nav: nav, cfg: cfg}
}

// Admit evaluates the current session. It returns true when the protected
// content should render; on a redirect decision it navigates exactly once
// and returns false. A Wait decision returns false without navigating.
func (g *Guard) Admit(requiredRoles ...string) bool {
	switch Decide(g.manager.Snapshot(), requiredRoles...) {
	case DecisionAllow:
		return true
	case DecisionRedirectLogin:
		g.nav.Navigate(g.cfg.LoginPath)
		return false
	case DecisionRedirectUnauthorized:
		g.nav.Navigate(g.cfg.UnauthorizedPath)
		return false
	default: // DecisionWait
		return false
	}
}
