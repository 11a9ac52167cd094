package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/medusa"
	"trek-storefront/internal/service/storefront"
)

const (
	redirectOnErrorKey = "storefront.error_redirect"
	genericMessage     = "Something went wrong. Please try again."
)

// notifyErrors turns the last handler error into a user-visible notification:
// JSON for the API, a flash notice plus redirect for form posts and an error
// page otherwise.
func notifyErrors(logger *zap.Logger, secure bool) gin.HandlerFunc {
	jar := cookieJar{secure: secure}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status, message := describeError(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed", zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
		} else {
			logger.Info("request rejected", zap.Error(err), zap.Int("status", status))
		}

		switch {
		case isAPIRequest(c):
			c.AbortWithStatusJSON(status, gin.H{"message": message})
		case c.Request.Method == http.MethodPost:
			jar.setNotice(c, message)
			target := c.GetString(redirectOnErrorKey)
			if target == "" {
				target = "/"
			}
			c.Redirect(http.StatusSeeOther, target)
			c.Abort()
		default:
			c.HTML(status, "error.html", pageData{
				Title:   http.StatusText(status),
				Status:  status,
				Notice:  message,
				Account: accountFrom(c),
			})
			c.Abort()
		}
	}
}

func failForm(c *gin.Context, err error, redirect string) {
	c.Set(redirectOnErrorKey, redirect)
	_ = c.Error(err)
}

func describeError(err error) (int, string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Message
	case errors.Is(err, storefront.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, storefront.ErrAccountExists):
		return http.StatusConflict, "An account with this email already exists."
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "The requested item could not be found."
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Please log in to continue."
	}
	if status := medusa.StatusOf(err); status >= http.StatusBadRequest && status < http.StatusInternalServerError {
		return status, medusa.Message(err)
	}
	return http.StatusInternalServerError, genericMessage
}

func isAPIRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
