package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"trek-storefront/internal/domain"
	"trek-storefront/internal/medusa"
	sessionrepo "trek-storefront/internal/repository/session"
	"trek-storefront/internal/service/session"
	"trek-storefront/internal/service/storefront"
)

const testPassword = "secret"

// fakeBackend mimics the commerce store API closely enough for the router:
// login captures a session cookie and customer calls require it.
type fakeBackend struct {
	mu          sync.Mutex
	carts       map[string]*domain.Cart
	customer    domain.Customer
	nextCart    int
	logoutErr   error
	healthErr   error
	transferErr error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		carts:    make(map[string]*domain.Cart),
		customer: domain.Customer{ID: "cus_1", Email: "asha@example.com", FirstName: "Asha"},
	}
}

func (b *fakeBackend) addCart(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.carts[id] = &domain.Cart{ID: id, RegionID: "reg_in", CurrencyCode: "inr"}
}

func (b *fakeBackend) cart(id string) *domain.Cart {
	b.mu.Lock()
	defer b.mu.Unlock()
	c, ok := b.carts[id]
	if !ok {
		return nil
	}
	out := *c
	out.Items = append([]domain.LineItem(nil), c.Items...)
	return &out
}

func requireSession(ctx context.Context) error {
	if medusa.SessionFrom(ctx).Empty() {
		return &medusa.Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	}
	return nil
}

func (b *fakeBackend) Login(ctx context.Context, _, password string) error {
	if password != testPassword {
		return &medusa.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	medusa.SessionFrom(ctx).Capture([]*http.Cookie{{Name: "connect.sid", Value: "sess-1"}})
	return nil
}

func (b *fakeBackend) Authenticate(_ context.Context, _, password string) (string, error) {
	if password != testPassword {
		return "", &medusa.Error{Status: http.StatusUnauthorized, Message: "Invalid email or password"}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"actor_id": b.customer.ID}).SignedString([]byte("test"))
}

func (b *fakeBackend) Logout(ctx context.Context) error {
	medusa.SessionFrom(ctx).Clear()
	return b.logoutErr
}

func (b *fakeBackend) Register(context.Context, string, string) (string, error) {
	return "", &medusa.Error{Status: http.StatusUnauthorized, Message: "Identity with email already exists"}
}

func (b *fakeBackend) CreateCustomer(context.Context, string, domain.CustomerInput) (*domain.Customer, error) {
	return nil, errors.New("not used")
}

func (b *fakeBackend) RetrieveCustomer(ctx context.Context) (*domain.Customer, error) {
	if err := requireSession(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.customer
	return &out, nil
}

func (b *fakeBackend) UpdateCustomer(ctx context.Context, in domain.CustomerUpdate) (*domain.Customer, error) {
	if err := requireSession(ctx); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.customer.Metadata = in.Metadata
	out := b.customer
	return &out, nil
}

func (b *fakeBackend) CreateCart(_ context.Context, items []domain.LineItemInput) (*domain.Cart, error) {
	b.mu.Lock()
	b.nextCart++
	id := fmt.Sprintf("cart_%d", b.nextCart)
	b.carts[id] = &domain.Cart{ID: id, RegionID: "reg_in", CurrencyCode: "inr"}
	b.mu.Unlock()
	for _, item := range items {
		b.appendItem(id, item)
	}
	return b.cart(id), nil
}

func (b *fakeBackend) appendItem(cartID string, item domain.LineItemInput) {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := b.carts[cartID]
	c.Items = append(c.Items, domain.LineItem{
		ID:        fmt.Sprintf("item_%d", len(c.Items)+1),
		ProductID: "prod_rupin",
		Title:     "Rupin Pass Trek",
		VariantID: item.VariantID,
		Quantity:  item.Quantity,
		UnitPrice: 16750,
		Total:     16750 * float64(item.Quantity),
		Metadata:  item.Metadata,
	})
	c.Subtotal += 16750 * float64(item.Quantity)
	c.Total = c.Subtotal
}

func (b *fakeBackend) RetrieveCart(_ context.Context, id string) (*domain.Cart, error) {
	if c := b.cart(id); c != nil {
		return c, nil
	}
	return nil, &medusa.Error{Status: http.StatusNotFound, Type: "not_found"}
}

func (b *fakeBackend) TransferCart(ctx context.Context, id string) (*domain.Cart, error) {
	if err := requireSession(ctx); err != nil {
		return nil, err
	}
	if b.transferErr != nil {
		return nil, b.transferErr
	}
	b.mu.Lock()
	c, ok := b.carts[id]
	if ok {
		c.CustomerID = b.customer.ID
	}
	b.mu.Unlock()
	if !ok {
		return nil, &medusa.Error{Status: http.StatusNotFound}
	}
	return b.cart(id), nil
}

func (b *fakeBackend) AddLineItem(_ context.Context, cartID string, item domain.LineItemInput) (*domain.Cart, error) {
	if b.cart(cartID) == nil {
		return nil, &medusa.Error{Status: http.StatusNotFound}
	}
	b.appendItem(cartID, item)
	return b.cart(cartID), nil
}

func (b *fakeBackend) ListProducts(context.Context, medusa.ProductQuery) ([]domain.Product, error) {
	return []domain.Product{*rupinPass()}, nil
}

func (b *fakeBackend) RetrieveProduct(_ context.Context, id, _ string) (*domain.Product, error) {
	if id != "prod_rupin" {
		return nil, &medusa.Error{Status: http.StatusNotFound, Type: "not_found"}
	}
	return rupinPass(), nil
}

func (b *fakeBackend) Health(context.Context) error {
	return b.healthErr
}

func intPtr(v int) *int {
	return &v
}

func rupinPass() *domain.Product {
	yearOpt := &domain.ProductOption{Title: "Year"}
	monthOpt := &domain.ProductOption{Title: "Month"}
	return &domain.Product{
		ID:          "prod_rupin",
		Title:       "Rupin Pass Trek",
		Description: "A classic crossing.",
		Options: []domain.ProductOption{
			{ID: "opt_year", Title: "Year", Values: []domain.OptionValue{{Value: "2025"}, {Value: "2026"}}},
			{ID: "opt_month", Title: "Month", Values: []domain.OptionValue{{Value: "September"}, {Value: "July"}}},
		},
		Variants: []domain.Variant{{
			ID:    "var_sep",
			Title: "5th September to 21st September - 2025",
			Options: []domain.VariantOption{
				{Value: "2025", Option: yearOpt},
				{Value: "September", Option: monthOpt},
			},
			CalculatedPrice:   &domain.CalculatedPrice{CalculatedAmount: 16750, CurrencyCode: "inr"},
			InventoryQuantity: intPtr(5),
		}},
	}
}

type testEnv struct {
	router   *gin.Engine
	backend  *fakeBackend
	sessions *session.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	backend := newFakeBackend()
	sessions := session.NewService(sessionrepo.NewMemory(), 0, nil)
	router, err := buildRouter(nil, Deps{
		Storefront: storefront.New(backend, nil),
		Sessions:   sessions,
		Backend:    backend,
	})
	if err != nil {
		t.Fatalf("build router: %v", err)
	}
	return &testEnv{router: router, backend: backend, sessions: sessions}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		if c != nil {
			req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
		}
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func loginCookies(t *testing.T, env *testEnv, cookies ...*http.Cookie) (*http.Cookie, *http.Cookie) {
	t.Helper()
	rec := env.do(formRequest("/login", url.Values{"email": {"asha@example.com"}, "password": {testPassword}}), cookies...)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d body=%s", rec.Code, rec.Body.String())
	}
	sess := cookieNamed(rec, sessionCookieName)
	if sess == nil || sess.Value == "" {
		t.Fatal("login: expected storefront session cookie")
	}
	return sess, cookieNamed(rec, cartCookieName)
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected ready, got %d body=%s", rec.Code, rec.Body.String())
	}

	env.backend.healthErr = errors.New("down")
	rec = env.do(httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-123")
	rec := env.do(req)
	if got := rec.Header().Get(requestIDHeader); got != "req-123" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}
}

func TestAPIAddLineItems_CreatesCartAndCookie(t *testing.T) {
	env := newTestEnv(t)
	body := `{"items":[{"variant_id":"var_sep","quantity":1}]}`

	rec := env.do(jsonRequest(http.MethodPost, "/api/cart/line-items", body))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	cookie := cookieNamed(rec, cartCookieName)
	if cookie == nil || cookie.Value != "cart_1" {
		t.Fatalf("expected cart cookie cart_1, got %+v", cookie)
	}
	if cookie.Path != "/" || cookie.MaxAge != 30*24*60*60 || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes %+v", cookie)
	}

	rec = env.do(jsonRequest(http.MethodPost, "/api/cart/line-items", body), cookie)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if cookieNamed(rec, cartCookieName) != nil {
		t.Fatal("expected cookie untouched when cart exists")
	}
	if n := len(env.backend.cart("cart_1").Items); n != 2 {
		t.Fatalf("expected two line items, got %d", n)
	}
}

func TestAPIAddLineItems_Validation(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(jsonRequest(http.MethodPost, "/api/cart/line-items", `{"items":[{"variant_id":"var_sep","quantity":0}]}`))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"message":"quantity must be positive"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAPILogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"asha@example.com","password":"wrong"}`))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password.") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if cookieNamed(rec, sessionCookieName) != nil {
		t.Fatal("expected no session cookie after failed login")
	}
}

func TestAPISignup_ExistingAccount(t *testing.T) {
	env := newTestEnv(t)
	body := `{"first_name":"Asha","last_name":"Rao","email":"asha@example.com","password":"x","confirm_password":"x"}`
	rec := env.do(jsonRequest(http.MethodPost, "/api/auth/signup", body))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginForm_TransfersAnonymousCart(t *testing.T) {
	env := newTestEnv(t)
	env.backend.addCart("cart_anon")
	anon := &http.Cookie{Name: cartCookieName, Value: "cart_anon"}

	sess, cart := loginCookies(t, env, anon)
	if cart == nil || cart.Value != "cart_anon" {
		t.Fatalf("expected cart cookie to stay cart_anon, got %+v", cart)
	}
	if got := env.backend.cart("cart_anon").CustomerID; got != "cus_1" {
		t.Fatalf("expected cart transferred to customer, got %q", got)
	}

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), sess, cart)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	for _, want := range []string{`"email":"asha@example.com"`, `"id":"cart_anon"`, `"cart_id":"cart_anon"`} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("expected %s in body: %s", want, rec.Body.String())
		}
	}
}

func TestLoginForm_FailureRedirectsWithNotice(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(formRequest("/login", url.Values{"email": {"asha@example.com"}, "password": {"wrong"}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	notice := cookieNamed(rec, noticeCookieName)
	if notice == nil {
		t.Fatal("expected notice cookie")
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/login", nil), notice)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Invalid email or password.") {
		t.Fatalf("expected notice rendered, body=%s", rec.Body.String())
	}
	if c := cookieNamed(rec, noticeCookieName); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected notice cookie cleared, got %+v", c)
	}
}

func TestLoginForm_CartTransferFailureKeepsVisitorAnonymous(t *testing.T) {
	env := newTestEnv(t)
	env.backend.addCart("cart_anon")
	env.backend.transferErr = &medusa.Error{Status: http.StatusInternalServerError, Message: "transfer failed"}
	anon := &http.Cookie{Name: cartCookieName, Value: "cart_anon"}

	rec := env.do(formRequest("/login", url.Values{"email": {"asha@example.com"}, "password": {testPassword}}), anon)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if c := cookieNamed(rec, sessionCookieName); c != nil {
		t.Fatalf("expected no storefront session cookie, got %+v", c)
	}
	if cookieNamed(rec, cartCookieName) != nil {
		t.Fatal("expected cart cookie untouched")
	}
	if cookieNamed(rec, noticeCookieName) == nil {
		t.Fatal("expected failure surfaced as a notice")
	}
	if got := env.backend.cart("cart_anon").CustomerID; got != "" {
		t.Fatalf("expected cart to stay anonymous, got customer %q", got)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), anon)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `"customer":null`) || !strings.Contains(body, `"id":"cart_anon"`) {
		t.Fatalf("expected anonymous session with cart_anon, got %s", body)
	}
}

func TestLogout_ClearsEverythingEvenWhenBackendFails(t *testing.T) {
	env := newTestEnv(t)
	sess, cart := loginCookies(t, env)
	env.backend.logoutErr = errors.New("backend down")

	rec := env.do(formRequest("/logout", nil), sess, cart)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if c := cookieNamed(rec, cartCookieName); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected cart cookie removed, got %+v", c)
	}
	if c := cookieNamed(rec, sessionCookieName); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected session cookie removed, got %+v", c)
	}
	if cookieNamed(rec, noticeCookieName) == nil {
		t.Fatal("expected backend failure surfaced as a notice")
	}
	if _, err := env.sessions.Lookup(context.Background(), sess.Value); !errors.Is(err, session.ErrInvalidToken) {
		t.Fatalf("expected session revoked, got %v", err)
	}
}

func TestProductPage_BatchesForSelectedPeriod(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/trek/prod_rupin?year=2025&month=September", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	for _, want := range []string{"5th September to 21st September - 2025", "₹ 16,750", "5 slots available"} {
		if !strings.Contains(rec.Body.String(), want) {
			t.Fatalf("expected %q in page", want)
		}
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/trek/prod_rupin?year=2025&month=July", nil))
	if !strings.Contains(rec.Body.String(), "No batches available for the selected year and month.") {
		t.Fatalf("expected no batches message, body=%s", rec.Body.String())
	}
}

func TestProductPage_NotFound(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/trek/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/products/missing", nil))
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"message"`) {
		t.Fatalf("expected JSON 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestBookTrek_AddsLineItemAndRedirectsToCart(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(formRequest("/trek/prod_rupin/book", url.Values{
		"year": {"2025"}, "month": {"September"}, "batch": {"var_sep"},
	}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/cart" {
		t.Fatalf("expected redirect to /cart, got %d %q body=%s", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
	cart := env.backend.cart("cart_1")
	if cart == nil || len(cart.Items) != 1 {
		t.Fatalf("expected one line item, got %+v", cart)
	}
	meta := cart.Items[0].Metadata
	if meta["year"] != "2025" || meta["month"] != "September" || cart.Items[0].Quantity != 1 {
		t.Fatalf("unexpected line item %+v", cart.Items[0])
	}

	cookie := cookieNamed(rec, cartCookieName)
	rec = env.do(httptest.NewRequest(http.MethodGet, "/trek/prod_rupin", nil), cookie)
	if !strings.Contains(rec.Body.String(), "Go to Cart") {
		t.Fatal("expected go-to-cart shortcut once the trek is in the cart")
	}

	rec = env.do(httptest.NewRequest(http.MethodGet, "/cart", nil), cookie)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "September 2025") {
		t.Fatalf("expected cart page with booking period, got %d", rec.Code)
	}
}

func TestBookTrek_MissingBatchRedirectsBack(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(formRequest("/trek/prod_rupin/book", url.Values{"year": {"2025"}, "month": {"July"}}))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/trek/prod_rupin?month=July&year=2025" {
		t.Fatalf("unexpected redirect %q", got)
	}
}

func TestCartPage_RedirectsWithoutCart(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/cart", nil))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/" {
		t.Fatalf("expected redirect to /, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestIndexPage_ListsProducts(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Rupin Pass Trek") || !strings.Contains(rec.Body.String(), "From ₹ 16,750") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestUnknownSessionCookieIsDropped(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/session", nil), &http.Cookie{Name: sessionCookieName, Value: "bogus"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if c := cookieNamed(rec, sessionCookieName); c == nil || c.MaxAge >= 0 {
		t.Fatalf("expected stale session cookie expired, got %+v", c)
	}
	if !strings.Contains(rec.Body.String(), `"customer":null`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
