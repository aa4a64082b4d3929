package shopapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fatboylabs/gamestore/internal/domain"
	"github.com/fatboylabs/gamestore/internal/store"
	"github.com/fatboylabs/gamestore/internal/webserver"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/random"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type loginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// sessionInfo is the account view the API hands out. The account document
// itself never leaves the server (it carries the credential hash).
type sessionInfo struct {
	UID           string `json:"uid"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Role          string `json:"role"`
	Token         string `json:"token,omitempty"`
	Redirect      string `json:"redirect,omitempty"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/auth/register", registerAccount)
	webserver.PubPOST("/auth/login", login)
	webserver.PubGET("/auth/verify", verifyEmail)
	webserver.UserPOST("/auth/logout", logout)
	webserver.UserGET("/auth/session", currentSession)
}

func homeFor(role string) string {
	if role == domain.RoleAdmin {
		return "/admin"
	}
	return "/store"
}

func registerAccount(c echo.Context) error {
	var payload registerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse registration", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid registration", err.Error())
	}

	appx := webserver.App()
	ctx := c.Request().Context()
	username := strings.TrimSpace(payload.Username)

	_, err := appx.AccountStore().FindByDisplayName(ctx, username)
	switch {
	case err == nil:
		return fail(c, http.StatusConflict, "USERNAME_TAKEN", "That username is already registered", nil)
	case !errors.Is(err, store.ErrAccountNotFound):
		return failErr(c, err)
	}

	// signups with a bare name get a synthesized address
	email := strings.TrimSpace(payload.Email)
	if email == "" && strings.Contains(username, "@") {
		email = username
	}
	if email == "" {
		email = username + "@fatboy.games"
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return failErr(c, err)
	}

	acct := &domain.Account{
		ID:          uuid.NewString(),
		Username:    username,
		Email:       email,
		VerifyToken: random.String(32),
		Password:    string(hashed),
		Role:        domain.RoleUser,
		Cart:        []domain.GameSnapshot{},
		History:     []domain.PurchaseRecord{},
		LastLogin:   time.Now(),
	}
	if err := appx.AccountStore().Upsert(ctx, acct); err != nil {
		return failErr(c, err)
	}

	verifyURL := fmt.Sprintf("http://%s/api/v1/auth/verify?uid=%s&token=%s",
		c.Request().Host, acct.ID, acct.VerifyToken)
	if err := appx.Mailer().SendVerification(acct.Email, acct.Username, verifyURL); err != nil {
		// non-fatal: the account exists, verification can be re-sent
		zap.L().Warn("verification mail failed", zap.String("username", acct.Username), zap.Error(err))
	}

	token, err := webserver.IssueToken(appx.Config(), acct)
	if err != nil {
		return failErr(c, err)
	}

	zap.L().Info("account registered", zap.String("username", acct.Username))
	return ok(c, sessionInfo{
		UID:           acct.ID,
		Username:      acct.Username,
		Email:         acct.Email,
		EmailVerified: acct.EmailVerified,
		Role:          acct.Role,
		Token:         token,
		Redirect:      homeFor(acct.Role),
	})
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid login", err.Error())
	}

	appx := webserver.App()
	ctx := c.Request().Context()

	acct, err := appx.AccountStore().FindByDisplayName(ctx, strings.TrimSpace(payload.Username))
	if errors.Is(err, store.ErrAccountNotFound) {
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Unknown username or wrong password", nil)
	}
	if err != nil {
		return failErr(c, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(payload.Password)) != nil {
		return fail(c, http.StatusUnauthorized, "BAD_CREDENTIALS", "Unknown username or wrong password", nil)
	}

	acct.LastLogin = time.Now()
	if err := appx.AccountStore().Upsert(ctx, acct); err != nil {
		zap.L().Warn("last login update failed", zap.String("username", acct.Username), zap.Error(err))
	}

	token, err := webserver.IssueToken(appx.Config(), acct)
	if err != nil {
		return failErr(c, err)
	}

	zap.L().Info("login", zap.String("username", acct.Username), zap.String("role", acct.Role))
	return ok(c, sessionInfo{
		UID:           acct.ID,
		Username:      acct.Username,
		Email:         acct.Email,
		EmailVerified: acct.EmailVerified,
		Role:          acct.Role,
		Token:         token,
		Redirect:      homeFor(acct.Role),
	})
}

func verifyEmail(c echo.Context) error {
	uid := c.QueryParam("uid")
	token := c.QueryParam("token")
	if uid == "" || token == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing verification parameters", nil)
	}

	appx := webserver.App()
	ctx := c.Request().Context()

	acct, err := appx.AccountStore().Get(ctx, uid)
	if err != nil {
		return failErr(c, err)
	}
	if acct.EmailVerified {
		return ok(c, map[string]interface{}{"verified": true})
	}
	if acct.VerifyToken == "" || acct.VerifyToken != token {
		return fail(c, http.StatusBadRequest, "BAD_TOKEN", "Verification link is not valid", nil)
	}

	acct.EmailVerified = true
	if err := appx.AccountStore().Upsert(ctx, acct); err != nil {
		return failErr(c, err)
	}

	zap.L().Info("email verified", zap.String("username", acct.Username))
	return ok(c, map[string]interface{}{"verified": true})
}

func logout(c echo.Context) error {
	// tokens are stateless: logout just tells the client to drop it
	if acct := webserver.CurrentAccount(c); acct != nil {
		zap.L().Info("logout", zap.String("username", acct.Username))
	}
	return ok(c, map[string]string{"redirect": "/"})
}

func currentSession(c echo.Context) error {
	acct := webserver.CurrentAccount(c)
	return ok(c, sessionInfo{
		UID:           acct.ID,
		Username:      acct.Username,
		Email:         acct.Email,
		EmailVerified: acct.EmailVerified,
		Role:          acct.Role,
		Redirect:      homeFor(acct.Role),
	})
}
