package httpserver

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	cartCookieName    = "cart-id"
	cartCookieMaxAge  = 30 * 24 * time.Hour
	sessionCookieName = "storefront_session"
	noticeCookieName  = "storefront_notice"
	noticeMaxAge      = time.Minute
)

type cookieJar struct {
	secure bool
}

func (j cookieJar) set(c *gin.Context, name, value string, maxAge time.Duration, httpOnly bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Secure:   j.secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

func (j cookieJar) expire(c *gin.Context, name string, httpOnly bool) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   j.secure,
		HttpOnly: httpOnly,
		SameSite: http.SameSiteLaxMode,
	})
}

func (j cookieJar) cartStore(c *gin.Context) *cartCookie {
	return &cartCookie{c: c, jar: j}
}

// setNotice stores a one-shot message shown on the next page render.
func (j cookieJar) setNotice(c *gin.Context, message string) {
	j.set(c, noticeCookieName, url.QueryEscape(message), noticeMaxAge, true)
}

// takeNotice reads and clears the pending message.
func (j cookieJar) takeNotice(c *gin.Context) string {
	cookie, err := c.Request.Cookie(noticeCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	j.expire(c, noticeCookieName, true)
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}

// cartCookie is the cart-id cookie. Writes are visible to later reads in the
// same request.
type cartCookie struct {
	c      *gin.Context
	jar    cookieJar
	id     string
	loaded bool
}

func (s *cartCookie) CartID() string {
	if !s.loaded {
		s.id, _ = s.c.Cookie(cartCookieName)
		s.loaded = true
	}
	return s.id
}

func (s *cartCookie) SetCartID(id string) {
	s.jar.set(s.c, cartCookieName, id, cartCookieMaxAge, false)
	s.id = id
	s.loaded = true
}

func (s *cartCookie) Clear() {
	s.jar.expire(s.c, cartCookieName, false)
	s.id = ""
	s.loaded = true
}
