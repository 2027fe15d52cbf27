package middleware

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/makerworks/safetytraining/backend/internal/domain/entities"
	"github.com/makerworks/safetytraining/backend/internal/infrastructure/observability"
	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

// Routes the gate decision machinery is anchored on
const (
	SignInRoute     = "/auth/signin"
	AssessmentRoute = "/safety-assessment"
	pendingRoute    = "/account/pending"
	rejectedRoute   = "/account/rejected"
	suspendedRoute  = "/account/suspended"
)

// assessmentRequiredRoles are the roles that must complete the safety
// assessment before reaching anything else
var assessmentRequiredRoles = map[entities.Role]bool{
	entities.RoleStudent: true,
	entities.RoleMember:  true,
}

// statusAllowLists are the only paths reachable while an account is in a
// non-approved state
var statusAllowLists = map[entities.AccountStatus]map[string]bool{
	entities.StatusPending:   {pendingRoute: true},
	entities.StatusRejected:  {rejectedRoute: true},
	entities.StatusSuspended: {suspendedRoute: true},
}

// statusPages maps a non-approved state to the page explaining it
var statusPages = map[entities.AccountStatus]string{
	entities.StatusPending:   pendingRoute,
	entities.StatusRejected:  rejectedRoute,
	entities.StatusSuspended: suspendedRoute,
}

// Decision is the gate's verdict for a single request
type Decision struct {
	Allow    bool
	Location string
}

func allow() Decision {
	return Decision{Allow: true}
}

func redirect(location string) Decision {
	return Decision{Location: location}
}

// signInRedirect carries the original path so the client can resume there
func signInRedirect(path string) Decision {
	return redirect(SignInRoute + "?callbackUrl=" + url.QueryEscape(path))
}

// Decide is the pure per-request gate function. Evaluated fresh on every
// request so account status changes take effect immediately.
func Decide(principal *entities.Principal, hasTaken bool, path string) Decision {
	if principal == nil {
		return signInRedirect(path)
	}

	if allowList, restricted := statusAllowLists[principal.Status]; restricted {
		if allowList[path] {
			return allow()
		}
		return redirect(statusPages[principal.Status])
	}

	if principal.Status != entities.StatusApproved {
		// Unknown status, treat like no session
		return signInRedirect(path)
	}

	if assessmentRequiredRoles[principal.Role] && !hasTaken && path != AssessmentRoute {
		return redirect(AssessmentRoute)
	}
	return allow()
}

// AttemptChecker reports whether a user has an assessment attempt on record
type AttemptChecker interface {
	HasTaken(ctx context.Context, userID string) (bool, int, error)
}

// AssessmentGateMiddleware applies the gate decision to every request.
// Runs after AuthMiddleware so the principal is already in context.
func AssessmentGateMiddleware(checker AttemptChecker, metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())

			hasTaken := false
			if principal != nil {
				taken, _, err := checker.HasTaken(r.Context(), principal.UserID)
				if err != nil {
					// Fail closed: without attempt data we cannot prove the
					// requirement is satisfied
					gateErr := apperrors.New(apperrors.ErrorTypeGateEvaluation, "assessment attempt lookup failed", err)
					log.Error().Err(gateErr).Str("user_id", principal.UserID).Msg("gating to sign-in")
					redirectTo(w, r, metrics, signInRedirect(r.URL.Path).Location)
					return
				}
				hasTaken = taken
			}

			decision := Decide(principal, hasTaken, r.URL.Path)
			if !decision.Allow {
				redirectTo(w, r, metrics, decision.Location)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func redirectTo(w http.ResponseWriter, r *http.Request, metrics *observability.Metrics, location string) {
	observability.RecordGateRedirect(r.Context(), metrics, location)
	http.Redirect(w, r, location, http.StatusTemporaryRedirect)
}
