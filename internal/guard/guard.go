package guard

import (
	"sync"

	"github.com/zucitech/portal-client/internal/access"
	"github.com/zucitech/portal-client/internal/entity"
)

// State is the guard decision for a protected view.
type State int

const (
	// StatePending means session restore is still in flight: render a
	// loading indicator, decide nothing.
	StatePending State = iota
	// StateAllowed means the requirement is satisfied: render content.
	StateAllowed
	// StateDenied means the requirement failed: render nothing. When a
	// session exists the guard has already redirected to the fallback
	// path; without one, unauthenticated handling is left to the
	// top-level router.
	StateDenied
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateAllowed:
		return "allowed"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}

const DefaultFallbackPath = "/dashboard"

// Navigator performs a client-side navigation to the fallback path.
type Navigator func(path string)

// SessionSource is the slice of the session store a guard needs.
type SessionSource interface {
	Identity() *entity.Identity
	Restored() bool
}

// Guard wraps a protected view. It consults the evaluator on every
// Resolve and redirects at most once per requirement: a denial is a
// routing outcome, not an error, and repeated renders of the same
// denied view must not stack navigations.
type Guard struct {
	eval     *access.Evaluator
	session  SessionSource
	navigate Navigator
	fallback string

	mu         sync.Mutex
	lastDenied string
}

func New(eval *access.Evaluator, session SessionSource, navigate Navigator, fallback string) *Guard {
	if fallback == "" {
		fallback = DefaultFallbackPath
	}

	return &Guard{
		eval:     eval,
		session:  session,
		navigate: navigate,
		fallback: fallback,
	}
}

// Resolve runs the state machine for one render of the protected view.
func (g *Guard) Resolve(req access.Requirement) State {
	if !g.session.Restored() {
		return StatePending
	}

	key := req.Key()

	if g.eval.Check(req) {
		g.mu.Lock()
		if g.lastDenied == key {
			// A later identity change may deny this requirement again;
			// that counts as a fresh denial.
			g.lastDenied = ""
		}
		g.mu.Unlock()

		return StateAllowed
	}

	identity := g.session.Identity()
	if identity == nil || !identity.IsActive {
		// No usable session: do not redirect, the router owns
		// unauthenticated access. A deactivated account is handled the
		// same way even though its snapshot or token survived locally.
		return StateDenied
	}

	g.mu.Lock()
	redirect := g.lastDenied != key
	g.lastDenied = key
	g.mu.Unlock()

	if redirect && g.navigate != nil {
		g.navigate(g.fallback)
	}

	return StateDenied
}
