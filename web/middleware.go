package web

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"analytics-dashboard/models"
	"analytics-dashboard/storage"
	"analytics-dashboard/utils"
)

const (
	sessionCookie = "dashboard_session"
	sessionKey    = "session"
)

// RequestLogger logs method, path, status and latency of every request.
func RequestLogger(logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Zerolog().Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// Sessions attaches the visitor's session to the context. A known session
// past half its ttl is saved again and its cookie renewed, so the ttl runs
// from the last visit. A visitor without a session gets a new one; with
// persist unset it is neither stored nor given a cookie.
func Sessions(store storage.SessionStore, ttl time.Duration, persist bool, logger *utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if id, err := c.Cookie(sessionCookie); err == nil && id != "" {
			sess, err := store.Get(ctx, id)
			if err != nil {
				logger.Warn("[session] Lookup of %s failed: %v", id, err)
			}
			if sess != nil {
				if ttl > 0 && time.Since(sess.UpdatedAt) > ttl/2 {
					persistSession(c, store, sess, ttl, logger)
				}
				c.Set(sessionKey, sess)
				c.Next()
				return
			}
		}

		sess := models.NewSession(uuid.NewString())
		if persist {
			persistSession(c, store, sess, ttl, logger)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func persistSession(c *gin.Context, store storage.SessionStore, sess *models.Session, ttl time.Duration, logger *utils.Logger) {
	if err := store.Save(c.Request.Context(), sess); err != nil {
		logger.Warn("[session] Could not persist %s: %v", sess.ID, err)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, int(ttl.Seconds()), "/", "", false, true)
}

func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*models.Session); ok {
			return sess
		}
	}
	return models.NewSession("")
}
