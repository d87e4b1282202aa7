package server

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/smartgrow/internal/constants"
	"github.com/julianstephens/smartgrow/internal/logger"
	"github.com/julianstephens/smartgrow/internal/storage"
	"github.com/julianstephens/smartgrow/internal/tracker"
)

const trackerKey = "tracker"

func requestLogger() gin.HandlerFunc {
	log := logger.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// withTracker builds a tracker for the caller's namespace and holds that
// namespace's lock for the rest of the request.
func (s *Server) withTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := storage.NewUserContext(c.GetHeader(constants.UserHeader))
		l := s.userLock(user.UserID)
		l.Lock()
		defer l.Unlock()

		c.Set(trackerKey, s.trackerFor(user))
		c.Next()
	}
}

func trackerFrom(c *gin.Context) *tracker.Tracker {
	return c.MustGet(trackerKey).(*tracker.Tracker)
}

func (s *Server) requireSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.cfg.Secret == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "notifications are disabled"})
			return
		}
		got := c.GetHeader(constants.SecretHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.cfg.Secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
