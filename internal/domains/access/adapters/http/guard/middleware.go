// Package guard carries the access gate into gin.
package guard

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Apurer/storefront-console/internal/domains/access/domain"
	apierrors "github.com/Apurer/storefront-console/internal/shared/errors"
)

const (
	// SessionCookie is the cookie browsers present the session token in.
	SessionCookie = "console_session"
	decisionKey   = "access.decision"
)

// Resolver settles the access gate for a session token.
type Resolver interface {
	Resolve(ctx context.Context, token string) domain.Decision
}

// RequireAdmin stops every request that does not resolve to an admitted
// administrator. Browsers are redirected to loginPath, API callers get a
// problem response.
func RequireAdmin(resolver Resolver, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := resolver.Resolve(c.Request.Context(), TokenFrom(c))
		if decision.Admitted() {
			c.Set(decisionKey, decision)
			c.Next()
			return
		}
		if wantsHTML(c.Request) {
			target := loginPath + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
			return
		}
		apierrors.Respond(c, problemFor(decision))
		c.Abort()
	}
}

// TokenFrom reads the bearer token, falling back to the session cookie.
func TokenFrom(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if scheme, token, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// DecisionFrom returns the admitted decision stored by RequireAdmin.
func DecisionFrom(c *gin.Context) (domain.Decision, bool) {
	value, ok := c.Get(decisionKey)
	if !ok {
		return domain.Decision{}, false
	}
	decision, ok := value.(domain.Decision)
	return decision, ok
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func problemFor(decision domain.Decision) apierrors.ProblemDetail {
	switch decision.Reason {
	case domain.ReasonNotAdmin:
		return apierrors.ErrForbidden.WithDetail("administrator role required")
	case domain.ReasonLookupFailed:
		return apierrors.ErrUnavailable.WithDetail("could not verify session")
	default:
		return apierrors.ErrUnauthorized.WithDetail("sign in required")
	}
}
