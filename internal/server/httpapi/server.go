// Package httpapi exposes the credential service over REST. It owns the
// router, the bearer-token middleware and the mapping from service errors to
// HTTP statuses; no business rules live here.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuslink/campuslink/internal/logging"
	"github.com/campuslink/campuslink/internal/server/users"
)

type Server struct {
	address     string
	users       *users.Service
	logger      logging.Logger
	jwtSecret   []byte
	authLimiter *IPRateLimiter
}

func NewServer(address string, l logging.Logger, us *users.Service, secretKey string, authRatePerMinute int) *Server {
	logger := l.With("module", "http_server")
	return &Server{
		address:     address,
		logger:      logger,
		users:       us,
		jwtSecret:   []byte(secretKey),
		authLimiter: NewIPRateLimiter(authRatePerMinute, logger),
	}
}

// Router assembles the gin engine. Split out from Run so tests can drive the
// routes through httptest without a listener.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.countRequests(), s.logRequests())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// credential endpoints carry the per-IP limiter; everything else does not
	api.POST("/register", s.authLimiter.Handler(), s.register)
	api.POST("/login", s.authLimiter.Handler(), s.login)
	api.POST("/logout", s.logout)

	protected := api.Group("/users", s.RequireAuth())
	protected.GET("/me", s.me)
	protected.GET("/:id", s.getUser)
	protected.DELETE("/:id", s.deleteUser)

	admin := api.Group("/admin", s.RequireAuth(), s.RequireAdmin())
	admin.GET("/users", s.listUsers)

	return r
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully. It
// does not return until in-flight requests have drained.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *Server) serve(ctx context.Context, listen net.Listener) error {

	srv := &http.Server{
		Handler: s.Router(),
	}

	done := make(chan struct{})
	var shutdownErr error
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownErr = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	// Serve returns as soon as Shutdown is initiated; wait for the drain to
	// finish before reporting the server stopped.
	<-done

	if shutdownErr != nil {
		s.logger.Error(ctx, shutdownErr.Error())
		return shutdownErr
	}

	return nil
}
