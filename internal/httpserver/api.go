package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trek-storefront/internal/booking"
	"trek-storefront/internal/domain"
	"trek-storefront/internal/service/storefront"
)

type sessionResponse struct {
	Customer *customerView `json:"customer"`
	Cart     *cartView     `json:"cart"`
}

type addLineItemsRequest struct {
	Items []domain.LineItemInput `json:"items" binding:"required"`
}

func sessionPayload(c *gin.Context) sessionResponse {
	st := stateFrom(c)
	return sessionResponse{
		Customer: toCustomerView(st.Customer()),
		Cart:     toCartView(st.Cart()),
	}
}

func (h *handlers) apiSession(c *gin.Context) {
	c.JSON(http.StatusOK, sessionPayload(c))
}

func (h *handlers) apiLogin(c *gin.Context) {
	var in storefront.LoginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(domain.Invalid("body", "invalid request body"))
		return
	}
	if err := h.svc.Login(c.Request.Context(), stateFrom(c), cartsFrom(c), in); err != nil {
		_ = c.Error(err)
		return
	}
	h.persist(c)
	c.JSON(http.StatusOK, sessionPayload(c))
}

func (h *handlers) apiSignup(c *gin.Context) {
	var in storefront.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(domain.Invalid("body", "invalid request body"))
		return
	}
	if err := h.svc.Signup(c.Request.Context(), stateFrom(c), cartsFrom(c), in); err != nil {
		_ = c.Error(err)
		return
	}
	h.persist(c)
	c.JSON(http.StatusCreated, sessionPayload(c))
}

func (h *handlers) apiLogout(c *gin.Context) {
	err := h.svc.Logout(c.Request.Context(), stateFrom(c), cartsFrom(c))
	h.persist(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sessionPayload(c))
}

func (h *handlers) apiCart(c *gin.Context) {
	cart := stateFrom(c).Cart()
	if cart == nil {
		_ = c.Error(domain.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": toCartView(cart)})
}

func (h *handlers) apiAddLineItems(c *gin.Context) {
	var req addLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(domain.Invalid("items", "items required"))
		return
	}
	cart, err := h.svc.AddToCart(c.Request.Context(), stateFrom(c), cartsFrom(c), req.Items)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.persist(c)
	c.JSON(http.StatusOK, gin.H{"cart": toCartView(cart)})
}

func (h *handlers) apiProducts(c *gin.Context) {
	products, err := h.svc.Products(c.Request.Context(), stateFrom(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": toProductCards(products)})
}

func (h *handlers) apiProduct(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{
		"product": toProductView(product),
		"booking": toBookingView(form, st.Cart().HasProduct(product.ID)),
	})
}
