// Package server exposes the tracker over HTTP. Every /v1 request works in
// the namespace of the user named by the X-User-ID header.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/environment"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/models"
	"github.com/julianstephens/smartgrow/internal/provider"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/storage/kv"
	"github.com/julianstephens/smartgrow/internal/tracker"
)

type Config struct {
	Backend  kv.Backend
	Provider provider.Provider
	// Sampler backs GET /v1/environment; nil disables the route.
	Sampler *environment.Sampler
	// Secret authorises POST /internal/alerts; empty disables it.
	Secret   string
	Language models.Language
	Location *time.Location
	Now      func() time.Time
}

type Server struct {
	cfg    Config
	engine *gin.Engine

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(cfg Config) *Server {
	if cfg.Language == "" {
		cfg.Language = models.LanguageEnglish
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	s := &Server{cfg: cfg, locks: make(map[string]*sync.Mutex)}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	s.engine = engine
	s.routes()
	return s
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.POST(constants.NotifyPath, s.requireSecret(), s.notify)

	v1 := s.engine.Group("/v1", s.withTracker())
	{
		scans := v1.Group("/scans")
		{
			scans.GET("", s.listScans)
			scans.POST("", s.createScan)
			scans.GET("/:id", s.getScan)
			scans.POST("/:id/archive", s.archiveScan)
			scans.POST("/:id/restore", s.restoreScan)
			scans.DELETE("/:id", s.deleteScan)
		}
		sessions := v1.Group("/sessions")
		{
			sessions.GET("", s.listSessions)
			sessions.GET("/:id", s.getSession)
			sessions.POST("/:id/checkin", s.checkin)
			sessions.POST("/:id/archive", s.archiveSession)
			sessions.DELETE("/:id", s.deleteSession)
		}
		v1.GET("/alerts", s.listAlerts)
		v1.DELETE("/alerts", s.clearAlerts)
		v1.GET("/stats", s.getStats)
		v1.PUT("/profile", s.updateProfile)
		v1.PUT("/language", s.setLanguage)
		v1.GET("/analytics", s.getAnalytics)
		v1.GET("/environment", s.getEnvironment)
	}
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// userLock serialises the read-modify-write cycles of one namespace.
func (s *Server) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

func (s *Server) trackerFor(user storage.UserContext) *tracker.Tracker {
	opts := []tracker.Option{tracker.WithClock(s.cfg.Now)}
	if s.cfg.Provider != nil {
		opts = append(opts, tracker.WithProvider(s.cfg.Provider))
	}
	return tracker.New(storage.NewStore(s.cfg.Backend, user), opts...)
}

// ObserveEnvironment raises threshold alerts for user. It is meant as the
// sampler's OnSample hook.
func (s *Server) ObserveEnvironment(userID string, prev, cur environment.Reading) {
	user := storage.NewUserContext(userID)
	l := s.userLock(user.UserID)
	l.Lock()
	defer l.Unlock()

	alerts, err := s.trackerFor(user).EvaluateEnvironment(prev, cur)
	if err != nil {
		logger.Error("Failed to raise environment alerts", "user", user, "error", err)
		return
	}
	for _, a := range alerts {
		logger.Info("Environment alert", "user", user, "title", a.Title)
	}
}

// Serve handles requests on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("HTTP server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	}
}
