package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"trek-storefront/internal/medusa"
	"trek-storefront/internal/service/storefront"
)

const (
	requestIDHeader = "X-Request-Id"

	stateKey        = "storefront.state"
	cartsKey        = "storefront.carts"
	sessionTokenKey = "storefront.session_token"
	requestIDKey    = "request_id"
)

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(medusa.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case path == "/healthz" || path == "/readyz":
			logger.Debug("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

func recoveryHandler(logger *zap.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		logger.Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

// sessionMiddleware restores the backend session for the storefront session
// cookie and persists it after the handler when the backend changed it.
func (h *handlers) sessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		backendCookie := ""
		token, _ := c.Cookie(sessionCookieName)
		if token != "" {
			rec, err := h.sessions.Lookup(ctx, token)
			if err != nil {
				h.logger.Debug("drop unknown storefront session", zap.Error(err))
				h.cookies.expire(c, sessionCookieName, true)
				token = ""
			} else {
				backendCookie = rec.BackendCookie
			}
		}
		c.Set(sessionTokenKey, token)
		c.Request = c.Request.WithContext(medusa.ContextWithSession(ctx, medusa.NewSession(backendCookie)))

		c.Next()

		if err := h.commitSession(c); err != nil {
			h.logger.Warn("persist storefront session", zap.Error(err))
		}
	}
}

// commitSession writes backend session changes to the session store. A new
// store record is only issued while response headers can still be written.
func (h *handlers) commitSession(c *gin.Context) error {
	ctx := c.Request.Context()
	sess := medusa.SessionFrom(ctx)
	if sess == nil || !sess.Changed() {
		return nil
	}
	token := c.GetString(sessionTokenKey)
	customerID := ""
	if customer := stateFrom(c).Customer(); customer != nil {
		customerID = customer.ID
	}

	switch {
	case sess.Empty():
		if token != "" {
			if err := h.sessions.Revoke(ctx, token); err != nil {
				return err
			}
			h.cookies.expire(c, sessionCookieName, true)
			c.Set(sessionTokenKey, "")
		}
	case token == "":
		if c.Writer.Written() {
			h.logger.Warn("backend session changed after response was written")
			return nil
		}
		rec, err := h.sessions.Issue(ctx, sess.Encode(), customerID)
		if err != nil {
			return err
		}
		h.cookies.set(c, sessionCookieName, rec.Token, h.sessions.TTL(), true)
		c.Set(sessionTokenKey, rec.Token)
	default:
		if err := h.sessions.Save(ctx, token, sess.Encode(), customerID); err != nil {
			return err
		}
	}
	sess.MarkSaved()
	return nil
}

// stateMiddleware loads the active customer and cart for the request.
func (h *handlers) stateMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		carts := h.cookies.cartStore(c)
		c.Set(cartsKey, carts)
		c.Set(stateKey, h.svc.LoadCommon(c.Request.Context(), carts))
		c.Next()
	}
}

func stateFrom(c *gin.Context) *storefront.State {
	if v, ok := c.Get(stateKey); ok {
		if st, ok := v.(*storefront.State); ok {
			return st
		}
	}
	return storefront.NewState(nil, nil)
}

func cartsFrom(c *gin.Context) storefront.CartStore {
	if v, ok := c.Get(cartsKey); ok {
		if carts, ok := v.(storefront.CartStore); ok {
			return carts
		}
	}
	return nopCarts{}
}

type nopCarts struct{}

func (nopCarts) CartID() string   { return "" }
func (nopCarts) SetCartID(string) {}
func (nopCarts) Clear()           {}
