package httpserver

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trek-storefront/internal/booking"
	"trek-storefront/internal/domain"
	"trek-storefront/internal/service/storefront"
)

type handlers struct {
	svc      storefrontService
	sessions sessionService
	cookies  cookieJar
	logger   *zap.Logger
}

func newHandlers(logger *zap.Logger, deps Deps) *handlers {
	return &handlers{
		svc:      deps.Storefront,
		sessions: deps.Sessions,
		cookies:  cookieJar{secure: deps.CookieSecure},
		logger:   logger,
	}
}

func (h *handlers) render(c *gin.Context, name string, data pageData) {
	data.Account = accountFrom(c)
	if data.Notice == "" {
		data.Notice = h.cookies.takeNotice(c)
	}
	c.HTML(http.StatusOK, name, data)
}

// persist commits session changes before a redirect or response is written.
func (h *handlers) persist(c *gin.Context) {
	if err := h.commitSession(c); err != nil {
		h.logger.Warn("persist storefront session", zap.Error(err))
	}
}

func (h *handlers) indexPage(c *gin.Context) {
	products, err := h.svc.Products(c.Request.Context(), stateFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.render(c, "index.html", pageData{
		Title:    "Treks",
		Products: toProductCards(products),
	})
}

func (h *handlers) productPage(c *gin.Context) {
	st := stateFrom(c)
	product, err := h.svc.Product(c.Request.Context(), st, c.Param("productId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	var sel booking.Selection
	if err := c.ShouldBindQuery(&sel); err != nil {
		sel = booking.Selection{}
	}
	form := booking.Restore(product, sel)
	h.render(c, "product.html", pageData{
		Title:   product.Title,
		Product: toProductView(product),
		Booking: toBookingView(form, st.Cart().HasProduct(product.ID)),
	})
}

func (h *handlers) bookTrek(c *gin.Context) {
	st := stateFrom(c)
	productID := c.Param("productId")
	var sel booking.Selection
	if err := c.ShouldBind(&sel); err != nil {
		failForm(c, domain.Invalid("booking", "Please choose a year, month and batch."), "/trek/"+url.PathEscape(productID))
		return
	}
	back := productURL(productID, sel)

	if st.Cart().HasProduct(productID) {
		c.Redirect(http.StatusSeeOther, "/cart")
		return
	}
	product, err := h.svc.Product(c.Request.Context(), st, productID)
	if err != nil {
		failForm(c, err, back)
		return
	}
	item, err := booking.Restore(product, sel).LineItem()
	if err != nil {
		failForm(c, err, back)
		return
	}
	if _, err := h.svc.AddToCart(c.Request.Context(), st, cartsFrom(c), []domain.LineItemInput{item}); err != nil {
		failForm(c, err, back)
		return
	}
	h.persist(c)
	c.Redirect(http.StatusSeeOther, "/cart")
}

func productURL(productID string, sel booking.Selection) string {
	q := url.Values{}
	if sel.Year != "" {
		q.Set("year", sel.Year)
	}
	if sel.Month != "" {
		q.Set("month", sel.Month)
	}
	if sel.Batch != "" {
		q.Set("batch", sel.Batch)
	}
	u := "/trek/" + url.PathEscape(productID)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (h *handlers) cartPage(c *gin.Context) {
	cart := stateFrom(c).Cart()
	if cart == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, "cart.html", pageData{
		Title: "Your Cart",
		Cart:  toCartView(cart),
	})
}

func (h *handlers) loginPage(c *gin.Context) {
	if stateFrom(c).LoggedIn() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, "login.html", pageData{Title: "Login"})
}

func (h *handlers) loginSubmit(c *gin.Context) {
	var in storefront.LoginInput
	_ = c.ShouldBind(&in)
	if err := h.svc.Login(c.Request.Context(), stateFrom(c), cartsFrom(c), in); err != nil {
		failForm(c, err, "/login")
		return
	}
	h.persist(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) signupPage(c *gin.Context) {
	if stateFrom(c).LoggedIn() {
		c.Redirect(http.StatusFound, "/")
		return
	}
	h.render(c, "signup.html", pageData{Title: "Signup"})
}

func (h *handlers) signupSubmit(c *gin.Context) {
	var in storefront.SignupInput
	_ = c.ShouldBind(&in)
	if err := h.svc.Signup(c.Request.Context(), stateFrom(c), cartsFrom(c), in); err != nil {
		failForm(c, err, "/signup")
		return
	}
	h.persist(c)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *handlers) logoutSubmit(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), stateFrom(c), cartsFrom(c))
	h.persist(c)
	if err != nil {
		failForm(c, err, "/")
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
