package webserver

import (
	"net/http"
	"time"

	"github.com/fatboylabs/gamestore/config"
	"github.com/fatboylabs/gamestore/internal/app"
	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	sessionContextKey = "gamestore_session"
	accountContextKey = "gamestore_account"

	// role appropriate landing pages, returned as redirect hints so the
	// presentation layer can route the browser.
	entryPage     = "/"
	userHomePage  = "/store"
	adminHomePage = "/admin"
)

// SessionClaims is the identity resolved by the session gate on every
// protected request.
type SessionClaims struct {
	UID           string `json:"uid"`
	Username      string `json:"username"`
	Role          string `json:"role"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

// IssueToken signs a session token for the account.
func IssueToken(cfg *config.AppConfig, acct *domain.Account) (string, error) {
	ttl := time.Duration(cfg.Web.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	claims := &SessionClaims{
		UID:           acct.ID,
		Username:      acct.Username,
		Role:          acct.Role,
		EmailVerified: acct.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.ID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Web.JwtSecret))
}

// sessionMiddleware parses and verifies the bearer token.
func sessionMiddleware(appx app.AppContext) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(appx.Config().Web.JwtSecret),
		ContextKey:  sessionContextKey,
		TokenLookup: "header:Authorization:Bearer ,cookie:gamestore_token",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(SessionClaims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return Fail(c, http.StatusUnauthorized, "NOT_SIGNED_IN",
				"Sign in to continue", map[string]string{"redirect": entryPage})
		},
	})
}

// gateMiddleware re-resolves the account behind the claims on every request,
// so a role change or deletion takes effect on the next page load.
func gateMiddleware(appx app.AppContext) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := CurrentClaims(c)
			if claims == nil {
				return Fail(c, http.StatusUnauthorized, "NOT_SIGNED_IN",
					"Sign in to continue", map[string]string{"redirect": entryPage})
			}
			acct, err := appx.AccountStore().Get(c.Request().Context(), claims.UID)
			if err != nil {
				zap.L().Warn("session account lookup failed",
					zap.String("uid", claims.UID), zap.Error(err))
				return Fail(c, http.StatusUnauthorized, "ACCOUNT_GONE",
					"Account is no longer available", map[string]string{"redirect": entryPage})
			}
			c.Set(accountContextKey, acct)
			return next(c)
		}
	}
}

// adminOnlyMiddleware enforces the page-to-role mapping for admin routes.
func adminOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct := CurrentAccount(c)
			if acct == nil || acct.Role != domain.RoleAdmin {
				return Fail(c, http.StatusForbidden, "ROLE_MISMATCH",
					"Admin access required", map[string]string{"redirect": userHomePage})
			}
			return next(c)
		}
	}
}

// RequireRole guards a user page that only one role should see, answering
// with the other role's landing page as the redirect hint.
func RequireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct := CurrentAccount(c)
			if acct == nil {
				return Fail(c, http.StatusUnauthorized, "NOT_SIGNED_IN",
					"Sign in to continue", map[string]string{"redirect": entryPage})
			}
			if acct.Role != role {
				redirect := userHomePage
				if acct.Role == domain.RoleAdmin {
					redirect = adminHomePage
				}
				return Fail(c, http.StatusForbidden, "ROLE_MISMATCH",
					"This page is not available for your role", map[string]string{"redirect": redirect})
			}
			return next(c)
		}
	}
}

// CurrentClaims returns the verified token claims for the request.
func CurrentClaims(c echo.Context) *SessionClaims {
	token, ok := c.Get(sessionContextKey).(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentAccount returns the account loaded by the session gate.
func CurrentAccount(c echo.Context) *domain.Account {
	acct, _ := c.Get(accountContextKey).(*domain.Account)
	return acct
}
