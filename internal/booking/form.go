// Package booking drives the trek booking form: year and month narrow the
// product's variants down to bookable batches, and a chosen batch becomes a
// cart line item.
package booking

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"trek-storefront/internal/currency"
	"trek-storefront/internal/domain"
)

const (
	YearOption  = "Year"
	MonthOption = "Month"
)

const (
	MessageSelectPeriod = "Please select year and month to see available batches."
	MessageNoBatches    = "No batches available for the selected year and month."
)

type State int

const (
	StateUnselected State = iota
	StateYearSelected
	StateNoBatches
	StateBatchesAvailable
	StateSubmittable
)

func (s State) String() string {
	switch s {
	case StateUnselected:
		return "unselected"
	case StateYearSelected:
		return "year_selected"
	case StateNoBatches:
		return "no_batches"
	case StateBatchesAvailable:
		return "batches_available"
	case StateSubmittable:
		return "submittable"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Selection is what the customer picked. Year and Month hold option labels,
// Batch holds a variant id.
type Selection struct {
	Year  string `form:"year" json:"year"`
	Month string `form:"month" json:"month"`
	Batch string `form:"batch" json:"batch"`
}

// Empty reports whether nothing has been picked yet.
func (s Selection) Empty() bool {
	return s.Year == "" && s.Month == "" && s.Batch == ""
}

type Choice struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

type Batch struct {
	VariantID    string `json:"variant_id"`
	Title        string `json:"title"`
	Price        string `json:"price"`
	Availability string `json:"availability,omitempty"`
	Selected     bool   `json:"selected"`
}

type Form struct {
	product   *domain.Product
	years     []string
	months    []string
	selection Selection
	batches   []Batch
}

// New builds the form for product with no selection.
func New(product *domain.Product) *Form {
	f := &Form{product: product}
	if product == nil {
		return f
	}
	if opt, ok := product.Option(YearOption); ok {
		f.years = labels(opt)
		sortYears(f.years)
	}
	if opt, ok := product.Option(MonthOption); ok {
		f.months = labels(opt)
		sortMonths(f.months)
	}
	return f
}

// Restore rebuilds the form from a submitted selection. Unknown values are
// dropped and a batch outside the chosen year and month is cleared.
func Restore(product *domain.Product, sel Selection) *Form {
	f := New(product)
	if sel.Empty() {
		f.SelectDefaults()
		return f
	}
	f.SelectYear(sel.Year)
	f.SelectMonth(sel.Month)
	if sel.Batch != "" {
		_ = f.SelectBatch(sel.Batch)
	}
	return f
}

// SelectDefaults picks the earliest year and month, as the page does on first render.
func (f *Form) SelectDefaults() {
	if len(f.years) > 0 {
		f.SelectYear(f.years[0])
	}
	if len(f.months) > 0 {
		f.SelectMonth(f.months[0])
	}
}

// SelectYear changes the year. Any chosen batch is cleared.
func (f *Form) SelectYear(year string) {
	if !contains(f.years, year) {
		year = ""
	}
	f.selection.Year = year
	f.selection.Batch = ""
	f.refresh()
}

// SelectMonth changes the month. Any chosen batch is cleared.
func (f *Form) SelectMonth(month string) {
	if !contains(f.months, month) {
		month = ""
	}
	f.selection.Month = month
	f.selection.Batch = ""
	f.refresh()
}

// SelectBatch picks one of the currently listed batches.
func (f *Form) SelectBatch(variantID string) error {
	for _, b := range f.batches {
		if b.VariantID == variantID {
			f.selection.Batch = variantID
			f.markSelected()
			return nil
		}
	}
	return domain.Invalid("batch", "Batch is not available for the selected year and month")
}

func (f *Form) State() State {
	switch {
	case f.selection.Year == "":
		return StateUnselected
	case f.selection.Month == "":
		return StateYearSelected
	case len(f.batches) == 0:
		return StateNoBatches
	case f.selection.Batch == "":
		return StateBatchesAvailable
	default:
		return StateSubmittable
	}
}

// Message is the hint shown in place of the batch list, or "" when batches are listed.
func (f *Form) Message() string {
	switch f.State() {
	case StateUnselected, StateYearSelected:
		return MessageSelectPeriod
	case StateNoBatches:
		return MessageNoBatches
	}
	return ""
}

func (f *Form) Selection() Selection {
	return f.selection
}

func (f *Form) Years() []Choice {
	return choices(f.years, f.selection.Year)
}

func (f *Form) Months() []Choice {
	return choices(f.months, f.selection.Month)
}

func (f *Form) Batches() []Batch {
	return f.batches
}

// CanSubmit reports whether a batch has been chosen.
func (f *Form) CanSubmit() bool {
	return f.State() == StateSubmittable
}

// LineItem is the cart entry for the chosen batch: quantity 1 with the
// selected year and month recorded as metadata.
func (f *Form) LineItem() (domain.LineItemInput, error) {
	switch f.State() {
	case StateUnselected:
		return domain.LineItemInput{}, domain.Invalid("year", "Year is required")
	case StateYearSelected:
		return domain.LineItemInput{}, domain.Invalid("month", "Month is required")
	case StateNoBatches, StateBatchesAvailable:
		return domain.LineItemInput{}, domain.Invalid("batch", "Batch is required")
	}
	return domain.LineItemInput{
		VariantID: f.selection.Batch,
		Quantity:  1,
		Metadata: map[string]any{
			"year":  f.selection.Year,
			"month": f.selection.Month,
		},
	}, nil
}

func (f *Form) refresh() {
	f.batches = nil
	if f.product == nil || f.selection.Year == "" || f.selection.Month == "" {
		return
	}
	yearOpt, _ := f.product.Option(YearOption)
	monthOpt, _ := f.product.Option(MonthOption)
	for _, v := range f.product.Variants {
		if optionValue(v, yearOpt) != f.selection.Year || optionValue(v, monthOpt) != f.selection.Month {
			continue
		}
		f.batches = append(f.batches, Batch{
			VariantID:    v.ID,
			Title:        v.Title,
			Price:        Price(v),
			Availability: Availability(v),
		})
	}
	f.markSelected()
}

func (f *Form) markSelected() {
	for i := range f.batches {
		f.batches[i].Selected = f.batches[i].VariantID == f.selection.Batch
	}
}

// Price renders the variant's calculated price, e.g. "₹ 18,500".
func Price(v domain.Variant) string {
	if v.CalculatedPrice == nil || v.CalculatedPrice.CalculatedAmount == 0 {
		return "Price on request"
	}
	code := v.CalculatedPrice.CurrencyCode
	if code == "" {
		code = "Unknown"
	}
	return currency.Format(v.CalculatedPrice.CalculatedAmount, code)
}

// Availability renders remaining slots, or "" when the backend did not report stock.
func Availability(v domain.Variant) string {
	if v.InventoryQuantity == nil {
		return ""
	}
	if n := *v.InventoryQuantity; n > 0 {
		return fmt.Sprintf("%d slots available", n)
	}
	return "Limited availability"
}

// optionValue finds the variant's value for opt, by option title or option id.
func optionValue(v domain.Variant, opt domain.ProductOption) string {
	if value, ok := v.OptionValue(opt.Title); ok {
		return value
	}
	for _, o := range v.Options {
		if opt.ID != "" && o.OptionID == opt.ID {
			return o.Value
		}
	}
	return ""
}

func labels(opt domain.ProductOption) []string {
	out := make([]string, 0, len(opt.Values))
	for _, v := range opt.Values {
		out = append(out, v.Value)
	}
	return out
}

func sortYears(years []string) {
	sort.SliceStable(years, func(i, j int) bool {
		return yearKey(years[i]) < yearKey(years[j])
	})
}

func sortMonths(months []string) {
	sort.SliceStable(months, func(i, j int) bool {
		return monthKey(months[i]) < monthKey(months[j])
	})
}

// Unparseable values sort last.
func yearKey(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

func monthKey(v string) int {
	t, err := time.Parse("January", v)
	if err != nil {
		return 13
	}
	return int(t.Month())
}

func choices(values []string, selected string) []Choice {
	out := make([]Choice, 0, len(values))
	for _, v := range values {
		out = append(out, Choice{Value: v, Selected: v == selected})
	}
	return out
}

func contains(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
