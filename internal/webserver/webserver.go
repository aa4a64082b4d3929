package webserver

import (
	"fmt"
	"net/http"

	"github.com/fatboylabs/gamestore/internal/app"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

var server *WebServer

// WebServer hosts three route groups: public endpoints (auth), the user API
// behind the session gate, and the admin API behind the session gate plus
// the admin role gate.
type WebServer struct {
	root  *echo.Echo
	appx  app.AppContext
	pub   *echo.Group
	user  *echo.Group
	admin *echo.Group
}

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func Init(appx app.AppContext) {
	server = NewWebServer(appx)
}

func NewWebServer(appx app.AppContext) *WebServer {
	root := echo.New()
	root.Pre(middleware.RemoveTrailingSlash())
	root.Use(middleware.Recover())
	root.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			zap.L().Debug("http request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status))
			return nil
		},
	}))
	root.Validator = &payloadValidator{validate: validator.New()}
	root.HideBanner = true
	root.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code := http.StatusInternalServerError
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
		}
		_ = Fail(c, code, "INTERNAL_ERROR", err.Error(), nil)
	}

	ws := &WebServer{root: root, appx: appx}

	ws.pub = root.Group("/api/v1")

	sessionMW := sessionMiddleware(appx)
	ws.user = root.Group("/api/v1", sessionMW, gateMiddleware(appx))
	ws.admin = root.Group("/admin/api/v1", sessionMW, gateMiddleware(appx), adminOnlyMiddleware())

	return ws
}

// Listen starts the HTTP server and blocks.
func Listen() error {
	cfg := server.appx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.L().Info("web server starting", zap.String("listen", addr))
	return server.root.Start(addr)
}

// Shutdown asks echo to stop accepting connections.
func Shutdown() {
	_ = server.root.Close()
}

// App exposes the application context to handler packages.
func App() app.AppContext {
	return server.appx
}

// Public routes (no session required).

func PubGET(path string, h echo.HandlerFunc)  { server.pub.GET(path, h) }
func PubPOST(path string, h echo.HandlerFunc) { server.pub.POST(path, h) }

// User API routes (session gate, any role).

func UserGET(path string, h echo.HandlerFunc)    { server.user.GET(path, h) }
func UserPOST(path string, h echo.HandlerFunc)   { server.user.POST(path, h) }
func UserPUT(path string, h echo.HandlerFunc)    { server.user.PUT(path, h) }
func UserDELETE(path string, h echo.HandlerFunc) { server.user.DELETE(path, h) }

// Admin API routes (session gate plus admin role gate).

func ApiGET(path string, h echo.HandlerFunc)    { server.admin.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.admin.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.admin.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.admin.DELETE(path, h) }
