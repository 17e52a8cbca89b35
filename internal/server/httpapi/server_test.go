package httpapi

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/campuslink/internal/logging"
	"github.com/campuslink/campuslink/internal/server/config"
	"github.com/campuslink/campuslink/internal/server/models"
	"github.com/campuslink/campuslink/internal/server/users"
)

// slowRepo delays lookups so a request can be kept in flight while the
// server is asked to stop.
type slowRepo struct {
	*memRepo
	delay time.Duration
}

func (s *slowRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	time.Sleep(s.delay)
	return s.memRepo.GetByEmail(ctx, email)
}

func TestServe_DrainsInFlightRequestsBeforeReturning(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := &slowRepo{memRepo: newMemRepo(), delay: 500 * time.Millisecond}
	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		AuthRatePerMinute:     6000,
	}
	us := users.NewService(repo, cfg)
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	s := NewServer("127.0.0.1:0", logger, us, cfg.SecretKey, cfg.AuthRatePerMinute)

	listen, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveDone := make(chan error, 1)
	go func() { serveDone <- s.serve(ctx, listen) }()

	reqDone := make(chan struct{})
	go func() {
		defer close(reqDone)
		body := strings.NewReader(`{"email":"ghost@x.edu","password":"Secret123!"}`)
		resp, err := http.Post("http://"+listen.Addr().String()+"/api/login", "application/json", body)
		if err == nil {
			resp.Body.Close()
		}
	}()

	// let the request reach the handler, then ask the server to stop
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-serveDone:
		select {
		case <-reqDone:
		default:
			t.Fatalf("serve returned while a request was still in flight")
		}
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatalf("server did not stop after context cancellation")
	}
}

func TestRouter_EmitsDebugRequestLog(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := logging.NewSlogLogger(slog.New(h))

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		AuthRatePerMinute:     6000,
	}
	us := users.NewService(newMemRepo(), cfg)
	r := NewServer(":0", logger, us, cfg.SecretKey, cfg.AuthRatePerMinute).Router()

	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	out := buf.String()
	assert.Contains(t, out, "request handled")
	assert.Contains(t, out, "path=/healthz")
	assert.Contains(t, out, "status=200")
}
