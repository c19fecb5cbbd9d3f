// Package hypertext renders the HTML fragments the storefront swaps into
// the page over HTMX. One cart mutation yields a single response body with
// several out-of-band fragments so the client never issues follow-up GETs.
package hypertext

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/oreshnik/storefront/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

// HXTrigger is the response header HTMX reads to fire client-side events.
const HXTrigger = "HX-Trigger"

const (
	EventCartUpdated = "cartUpdated"
	EventCartEmpty   = "cartEmpty"
	EventShowMessage = "showMessage"
)

// Triggers maps event names to payloads for the HX-Trigger header.
type Triggers map[string]string

func (t Triggers) Header() string {
	data, err := json.Marshal(t)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// CartTriggers is the standard set for a cart mutation: cartUpdated always,
// cartEmpty once the last item is gone.
func CartTriggers(cart *models.Cart) Triggers {
	t := Triggers{EventCartUpdated: ""}
	if cart.TotalItems() == 0 {
		t[EventCartEmpty] = ""
	}
	return t
}

type Renderer struct {
	t *template.Template
}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{t: t}, nil
}

func (r *Renderer) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.t.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) MiniCart(cart *models.Cart) (string, error) {
	return r.render("mini_cart.html", cart)
}

func (r *Renderer) CartTable(cart *models.Cart) (string, error) {
	return r.render("cart_table.html", cart)
}

func (r *Renderer) CartPage(data CartPageData) (string, error) {
	return r.render("cart.html", data)
}

func (r *Renderer) CheckoutPage(data CheckoutPageData) (string, error) {
	return r.render("checkout.html", data)
}

func (r *Renderer) PaymentPage(order *models.Order) (string, error) {
	return r.render("payment.html", order)
}

type CartPageData struct {
	Cart    *models.Cart
	Warning string
}

type CheckoutPageData struct {
	Cart   *models.Cart
	Form   map[string]string
	Errors map[string]string
}

// Counter is the header badge fragment. The OOB variant replaces the badge
// from responses targeted elsewhere on the page.
func Counter(totalItems int) string {
	return fmt.Sprintf("<span id='cart-counter' class='quantity'>%d</span>", totalItems)
}

func CounterOOB(totalItems int) string {
	return fmt.Sprintf("<span id='cart-counter' class='quantity' hx-swap-oob='true'>%d</span>", totalItems)
}

func MiniCartOOB(miniCartHTML string) string {
	return fmt.Sprintf(`<div id="mini-cart-container" class="mini-cart-dropdown" hx-swap-oob="true">%s</div>`, miniCartHTML)
}

func CartTableOOB(tableHTML string) string {
	return fmt.Sprintf(`<div id="checkout-cart-table" hx-swap-oob="true">%s</div>`, tableHTML)
}

func TopTotalOOB(totalPrice int64) string {
	return fmt.Sprintf(`<div id="checkout-top-total" class="text-right mb-5" style="font-size: 18px; font-weight: 700;" hx-swap-oob="true">Всего <span style="font-size: 20px; color: #3d8063;">%d</span> грн.</div>`, totalPrice)
}

func BottomTotalOOB(totalPrice int64) string {
	return fmt.Sprintf(`<span id="checkout-bottom-total" style="font-size: 18px; font-weight: 700;" hx-swap-oob="true">Всего <span style="font-size: 24px; color: #3d8063;">%d</span> грн.</span>`, totalPrice)
}

// CartUpdateBody bundles every region a cart mutation touches: the
// mini-cart, the counter badge, the checkout table and both running totals,
// all but the first tagged for out-of-band replacement.
func (r *Renderer) CartUpdateBody(cart *models.Cart) (string, error) {
	miniCart, err := r.MiniCart(cart)
	if err != nil {
		return "", err
	}
	table, err := r.CartTable(cart)
	if err != nil {
		return "", err
	}

	totalItems := cart.TotalItems()
	totalPrice := cart.TotalPrice()

	return miniCart +
		CounterOOB(totalItems) +
		CartTableOOB(table) +
		TopTotalOOB(totalPrice) +
		BottomTotalOOB(totalPrice), nil
}

// AddToCartBody answers the add-to-cart button: the counter replaces the
// requesting badge in-band, the mini-cart swaps out-of-band.
func (r *Renderer) AddToCartBody(cart *models.Cart) (string, error) {
	miniCart, err := r.MiniCart(cart)
	if err != nil {
		return "", err
	}
	return Counter(cart.TotalItems()) + MiniCartOOB(miniCart), nil
}
