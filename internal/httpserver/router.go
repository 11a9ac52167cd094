package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trek-storefront/internal/logging"
)

// buildRouter wires pages, the JSON API and probes.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	logger = logging.OrNop(logger)
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(requestIDMiddleware(), requestLogger(logger), gin.CustomRecovery(recoveryHandler(logger)))
	router.SetHTMLTemplate(tmpl)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Sessions, deps.Backend))

	h := newHandlers(logger, deps)

	pages := router.Group("/")
	pages.Use(notifyErrors(logger, deps.CookieSecure), h.sessionMiddleware(), h.stateMiddleware())
	pages.GET("", h.indexPage)
	pages.GET("trek/:productId", h.productPage)
	pages.POST("trek/:productId/book", h.bookTrek)
	pages.GET("cart", h.cartPage)
	pages.GET("login", h.loginPage)
	pages.POST("login", h.loginSubmit)
	pages.GET("signup", h.signupPage)
	pages.POST("signup", h.signupSubmit)
	pages.POST("logout", h.logoutSubmit)

	api := router.Group("/api")
	api.Use(cors.New(corsConfig(deps.CORSOrigins)))
	api.OPTIONS("/*path", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	apiRoutes := api.Group("")
	apiRoutes.Use(notifyErrors(logger, deps.CookieSecure), h.sessionMiddleware(), h.stateMiddleware())
	apiRoutes.GET("/session", h.apiSession)
	apiRoutes.POST("/auth/login", h.apiLogin)
	apiRoutes.POST("/auth/signup", h.apiSignup)
	apiRoutes.POST("/auth/logout", h.apiLogout)
	apiRoutes.GET("/cart", h.apiCart)
	apiRoutes.POST("/cart/line-items", h.apiAddLineItems)
	apiRoutes.GET("/products", h.apiProducts)
	apiRoutes.GET("/products/:productId", h.apiProduct)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
