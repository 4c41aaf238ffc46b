// Package webui renders the storefront pages. It holds no business state of
// its own; everything flows through the session store, the favorites store,
// and the backend client.
package webui

import (
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/micromarket/storefront/internal/backend"
	favports "github.com/micromarket/storefront/internal/domains/favorites/ports"
)

// Session is the session surface the UI consumes. Only the session store
// mutates the token; the UI reads authentication state and triggers the
// login/logout transitions.
type Session interface {
	IsAuthenticated() bool
	Login(token string) error
	Logout()
}

// Server wires the page handlers with their injected stores.
type Server struct {
	backend   *backend.Client
	session   Session
	favorites favports.Store
	logger    *slog.Logger
}

// Deps carries the collaborators for NewServer.
type Deps struct {
	Backend   *backend.Client
	Session   Session
	Favorites favports.Store
	Logger    *slog.Logger
}

func NewServer(deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &Server{
		backend:   deps.Backend,
		session:   deps.Session,
		favorites: deps.Favorites,
		logger:    logger,
	}
}

// requireAuth redirects unauthenticated page requests to the login entry
// point. The login page itself is never behind this middleware, so repeated
// redirects cannot loop.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.session.IsAuthenticated() {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// view builds the template payload with the fields every page needs.
func (s *Server) view(data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Authenticated"] = s.session.IsAuthenticated()
	return data
}

// renderError maps a backend failure onto the right page response. A session
// expiry has already cleared the session by the time it surfaces here, so it
// becomes a redirect to login.
func (s *Server) renderError(c *gin.Context, err error) {
	if errors.Is(err, backend.ErrSessionExpired) {
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
		return
	}
	status := http.StatusBadGateway
	message := "The backend is unavailable. Please try again."
	var apiErr *backend.Error
	if errors.As(err, &apiErr) {
		status = apiErr.Status
		message = apiErr.Message
		if message == "" {
			message = http.StatusText(status)
		}
	}
	s.logger.Error("page request failed", slog.Int("status", status), slog.String("error", err.Error()))
	c.HTML(status, "error", s.view(gin.H{"Message": message}))
}
