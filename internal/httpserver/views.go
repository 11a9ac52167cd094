package httpserver

import (
	"github.com/gin-gonic/gin"

	"trek-storefront/internal/booking"
	"trek-storefront/internal/currency"
	"trek-storefront/internal/domain"
)

type customerView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	DisplayName string `json:"display_name"`
	CartID      string `json:"cart_id,omitempty"`
}

type cartView struct {
	ID           string         `json:"id"`
	CustomerID   string         `json:"customer_id,omitempty"`
	CurrencyCode string         `json:"currency_code"`
	Items        []lineItemView `json:"items"`
	ItemCount    int            `json:"item_count"`
	Subtotal     string         `json:"subtotal"`
	Total        string         `json:"total"`
}

type lineItemView struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id,omitempty"`
	Title        string `json:"title"`
	VariantID    string `json:"variant_id,omitempty"`
	VariantTitle string `json:"variant_title,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
	Quantity     int    `json:"quantity"`
	UnitPrice    string `json:"unit_price"`
	Total        string `json:"total"`
	Year         string `json:"year,omitempty"`
	Month        string `json:"month,omitempty"`
}

type productCardView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle,omitempty"`
	Handle    string `json:"handle,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
	FromPrice string `json:"from_price,omitempty"`
}

type productView struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Description string   `json:"description,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
	Images      []string `json:"images"`
}

type bookingView struct {
	State     string            `json:"state"`
	InCart    bool              `json:"in_cart"`
	Selection booking.Selection `json:"selection"`
	Years     []booking.Choice  `json:"years"`
	Months    []booking.Choice  `json:"months"`
	Batches   []booking.Batch   `json:"batches"`
	Message   string            `json:"message,omitempty"`
	CanSubmit bool              `json:"can_submit"`
}

// accountView is the header strip shown on every page.
type accountView struct {
	Customer  *customerView
	CartCount int
}

type pageData struct {
	Title    string
	Status   int
	Notice   string
	Account  accountView
	Products []productCardView
	Product  *productView
	Booking  *bookingView
	Cart     *cartView
	Form     map[string]string
}

func accountFrom(c *gin.Context) accountView {
	st := stateFrom(c)
	return accountView{
		Customer:  toCustomerView(st.Customer()),
		CartCount: st.Cart().ItemCount(),
	}
}

func toCustomerView(c *domain.Customer) *customerView {
	if c == nil {
		return nil
	}
	return &customerView{
		ID:          c.ID,
		Email:       c.Email,
		FirstName:   c.FirstName,
		LastName:    c.LastName,
		DisplayName: c.DisplayName(),
		CartID:      c.CartID(),
	}
}

func toCartView(cart *domain.Cart) *cartView {
	if cart == nil {
		return nil
	}
	items := make([]lineItemView, 0, len(cart.Items))
	for _, line := range cart.Items {
		title := line.ProductTitle
		if title == "" {
			title = line.Title
		}
		year, month := bookingPeriod(line.Metadata)
		items = append(items, lineItemView{
			ID:           line.ID,
			ProductID:    line.ProductID,
			Title:        title,
			VariantID:    line.VariantID,
			VariantTitle: line.VariantTitle,
			Thumbnail:    line.Thumbnail,
			Quantity:     line.Quantity,
			UnitPrice:    currency.Format(line.UnitPrice, cart.CurrencyCode),
			Total:        currency.Format(line.Total, cart.CurrencyCode),
			Year:         year,
			Month:        month,
		})
	}
	return &cartView{
		ID:           cart.ID,
		CustomerID:   cart.CustomerID,
		CurrencyCode: cart.CurrencyCode,
		Items:        items,
		ItemCount:    cart.ItemCount(),
		Subtotal:     currency.Format(cart.Subtotal, cart.CurrencyCode),
		Total:        currency.Format(cart.Total, cart.CurrencyCode),
	}
}

// bookingPeriod reads the year and month recorded on a booked line item.
func bookingPeriod(meta map[string]any) (string, string) {
	if meta == nil {
		return "", ""
	}
	year, _ := meta["year"].(string)
	month, _ := meta["month"].(string)
	return year, month
}

func toProductCards(products []domain.Product) []productCardView {
	out := make([]productCardView, 0, len(products))
	for _, p := range products {
		out = append(out, productCardView{
			ID:        p.ID,
			Title:     p.Title,
			Subtitle:  p.Subtitle,
			Handle:    p.Handle,
			Thumbnail: p.Thumbnail,
			FromPrice: fromPrice(p),
		})
	}
	return out
}

// fromPrice renders the cheapest priced variant, or "" when none is priced.
func fromPrice(p domain.Product) string {
	var best *domain.CalculatedPrice
	for _, v := range p.Variants {
		cp := v.CalculatedPrice
		if cp == nil || cp.CalculatedAmount == 0 {
			continue
		}
		if best == nil || cp.CalculatedAmount < best.CalculatedAmount {
			best = cp
		}
	}
	if best == nil {
		return ""
	}
	return currency.Format(best.CalculatedAmount, best.CurrencyCode)
}

func toProductView(p *domain.Product) *productView {
	images := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.URL != "" {
			images = append(images, img.URL)
		}
	}
	return &productView{
		ID:          p.ID,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		Thumbnail:   p.Thumbnail,
		Images:      images,
	}
}

func toBookingView(f *booking.Form, inCart bool) *bookingView {
	return &bookingView{
		State:     f.State().String(),
		InCart:    inCart,
		Selection: f.Selection(),
		Years:     f.Years(),
		Months:    f.Months(),
		Batches:   f.Batches(),
		Message:   f.Message(),
		CanSubmit: f.CanSubmit(),
	}
}
