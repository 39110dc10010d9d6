package server

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/quaverlabs/quaver/backend/internal/auth"
	"github.com/quaverlabs/quaver/backend/internal/practice"
	"github.com/quaverlabs/quaver/backend/internal/users"
)

const currentUserContextKey = "quaver_current_user"

//go:embed templates/*.html
var templateFS embed.FS

var (
	errMissingUsersService    = errors.New("users service dependency required")
	errMissingPracticeService = errors.New("practice service dependency required")
	errMissingSessionManager  = errors.New("session manager dependency required")
)

// Dependencies wires the services the HTTP layer exposes.
type Dependencies struct {
	Users    *users.Service
	Practice *practice.Service
	Sessions *auth.SessionManager
	Logger   *zap.Logger
	Clock    func() time.Time
}

// NewHTTPHandler builds the gin router for the full HTTP surface: auth
// endpoints, session-protected JSON API, and the HTML page shells.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Users == nil {
		return nil, errMissingUsersService
	}
	if deps.Practice == nil {
		return nil, errMissingPracticeService
	}
	if deps.Sessions == nil {
		return nil, errMissingSessionManager
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	handler := &httpHandler{
		users:    deps.Users,
		practice: deps.Practice,
		sessions: deps.Sessions,
		logger:   logger,
		now:      clock,
	}

	router.GET("/", handler.handleHome)
	router.POST("/register", handler.handleRegister)
	router.POST("/login", handler.handleLogin)
	router.GET("/logout", handler.handleLogout)

	pages := router.Group("/")
	pages.Use(handler.requireSessionPage)
	pages.GET("/dashboard", handler.handleDashboardPage)
	pages.GET("/stats", handler.handleStatsPage)
	pages.GET("/log", handler.handleLogPage)

	api := router.Group("/api")
	api.Use(handler.requireSessionAPI)
	api.GET("/dashboard/stats", handler.handleDashboardStats)
	api.POST("/logs", handler.handleAddLog)
	api.GET("/logs", handler.handleGetLogs)
	api.PATCH("/edit-log/:number", handler.handleEditLog)
	api.GET("/recent-logs", handler.handleRecentLogs)
	api.GET("/pieces", handler.handleGetPieces)
	api.GET("/stats/pieces", handler.handleGetPieces)

	return router, nil
}

type httpHandler struct {
	users    *users.Service
	practice *practice.Service
	sessions *auth.SessionManager
	logger   *zap.Logger
	now      func() time.Time
}

// sessionUser resolves the account behind the request's session cookie.
func (h *httpHandler) sessionUser(c *gin.Context) (*users.User, error) {
	token, err := c.Cookie(h.sessions.CookieName())
	if err != nil {
		return nil, auth.ErrMissingSessionToken
	}
	userID, err := h.sessions.ValidateSessionToken(token)
	if err != nil {
		return nil, err
	}
	return h.users.ByID(userID)
}

// requireSessionAPI guards JSON endpoints: missing or invalid sessions get
// a 401 body.
func (h *httpHandler) requireSessionAPI(c *gin.Context) {
	user, err := h.sessionUser(c)
	if err != nil {
		h.logger.Info("rejected unauthenticated api request", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Set(currentUserContextKey, user)
	c.Next()
}

// requireSessionPage guards HTML pages: unauthenticated visitors are sent
// to the landing page instead of shown an error.
func (h *httpHandler) requireSessionPage(c *gin.Context) {
	user, err := h.sessionUser(c)
	if err != nil {
		c.Redirect(http.StatusFound, "/")
		c.Abort()
		return
	}
	c.Set(currentUserContextKey, user)
	c.Next()
}

// currentUser fetches the account placed in the context by the session
// middleware.
func currentUser(c *gin.Context) *users.User {
	value, ok := c.Get(currentUserContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*users.User)
	if !ok {
		return nil
	}
	return user
}
