package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/logging"
	"trek-storefront/internal/service/session"
	"trek-storefront/internal/service/storefront"
)

type storefrontService interface {
	LoadCommon(ctx context.Context, carts storefront.CartStore) *storefront.State
	Login(ctx context.Context, st *storefront.State, carts storefront.CartStore, in storefront.LoginInput) error
	Signup(ctx context.Context, st *storefront.State, carts storefront.CartStore, in storefront.SignupInput) error
	Logout(ctx context.Context, st *storefront.State, carts storefront.CartStore) error
	AddToCart(ctx context.Context, st *storefront.State, carts storefront.CartStore, items []domain.LineItemInput) (*domain.Cart, error)
	Products(ctx context.Context, st *storefront.State) ([]domain.Product, error)
	Product(ctx context.Context, st *storefront.State, id string) (*domain.Product, error)
}

type sessionService interface {
	Issue(ctx context.Context, backendCookie, customerID string) (session.Record, error)
	Lookup(ctx context.Context, token string) (session.Record, error)
	Save(ctx context.Context, token, backendCookie, customerID string) error
	Revoke(ctx context.Context, token string) error
	Ping(ctx context.Context) error
	TTL() time.Duration
}

type healthChecker interface {
	Health(ctx context.Context) error
}

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Storefront   storefrontService
	Sessions     sessionService
	Backend      healthChecker
	CookieSecure bool
	CORSOrigins  []string
}

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds a Server serving the storefront pages, JSON API and probes.
func New(addr string, logger *zap.Logger, deps Deps) (*Server, error) {
	logger = logging.OrNop(logger)
	gin.SetMode(gin.ReleaseMode)
	router, err := buildRouter(logger, deps)
	if err != nil {
		return nil, err
	}

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func readyHandler(sessions sessionService, backend healthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions == nil || backend == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := sessions.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "session store not reachable"})
			return
		}
		if err := backend.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "backend not reachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
