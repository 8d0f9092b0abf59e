package auth

import (
	"log"
	"time"

	"github.com/mhasan-dev/devgram/backend/internal/models"
	"github.com/mhasan-dev/devgram/backend/internal/repositories"
)

// State is the resolution state of a session check.
type State int

const (
	StateUnknown State = iota
	StateChecking
	StateAuthenticated
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// LoginExpiration is the soft session lifetime, measured from the moment the
// session was first observed by a successful check.
const LoginExpiration = 24 * time.Hour

// Result is the outcome of one CheckAuthUser call. It is a per-request value,
// handed to downstream handlers through the request context rather than held
// as shared mutable state.
type Result struct {
	State State
	User  models.AuthUser
}

// Authenticated reports whether the check resolved to a logged-in user.
func (r Result) Authenticated() bool {
	return r.State == StateAuthenticated
}

// Checker resolves "is there a valid logged-in user right now" against the
// session and user stores.
type Checker struct {
	sessions repositories.SessionRepository
	users    repositories.UserRepository
	now      func() time.Time
}

// NewChecker creates a new Checker.
func NewChecker(sessions repositories.SessionRepository, users repositories.UserRepository) *Checker {
	return &Checker{
		sessions: sessions,
		users:    users,
		now:      time.Now,
	}
}

// CheckAuthUser resolves a session token to an identity. Every failure mode
// (missing token, dead session, store error, expired login window) resolves to
// StateUnauthenticated with a cleared identity; store errors are logged, not
// surfaced, so callers cannot distinguish "logged out" from "store down".
func (c *Checker) CheckAuthUser(token string) Result {
	result := Result{State: StateChecking, User: models.EmptyAuthUser}

	if token == "" {
		result.State = StateUnauthenticated
		return result
	}

	session, err := c.sessions.GetSessionByToken(token)
	if err != nil {
		log.Printf("Error fetching session: %v", err)
		result.State = StateUnauthenticated
		return result
	}

	if session.LoginTimestamp != nil {
		if c.now().Sub(*session.LoginTimestamp) > LoginExpiration {
			// Login window passed: the session record is removed so the
			// expiry holds even if the client keeps presenting the token.
			if err := c.sessions.DeleteSession(token); err != nil {
				log.Printf("Error deleting expired session: %v", err)
			}
			result.State = StateUnauthenticated
			return result
		}
	} else {
		// First observation of this session, record the timestamp now.
		if err := c.sessions.SetLoginTimestamp(token, c.now()); err != nil {
			log.Printf("Error recording login timestamp: %v", err)
			result.State = StateUnauthenticated
			return result
		}
	}

	user, err := c.users.GetUserByID(session.UserID)
	if err != nil {
		log.Printf("Error fetching current user: %v", err)
		result.State = StateUnauthenticated
		return result
	}

	result.State = StateAuthenticated
	result.User = user.Projection()
	return result
}
