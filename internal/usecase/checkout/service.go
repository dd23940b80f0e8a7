package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	domcart "example.com/phonestore/internal/domain/cart"
	domproduct "example.com/phonestore/internal/domain/product"
)

var ErrEmptyCart = errors.New("cart is empty")

// Buyer is who the hand-off message is written for; an empty Email means a guest.
type Buyer struct {
	Email string
}

func (b Buyer) line(label string) string {
	if b.Email == "" {
		return "Compra como invitado"
	}
	return label + ": " + b.Email
}

// Service builds the pre-filled WhatsApp messages the storefront hands the
// buyer off with. There is no order API behind it.
type Service struct {
	phone string
}

func NewService(phone string) *Service {
	return &Service{phone: digits(phone)}
}

// Link returns the wa.me link carrying text. Spaces are sent as %20.
func (s *Service) Link(text string) string {
	return "https://wa.me/" + s.phone + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

// ContactLink is the bare chat link shown in the footer.
func (s *Service) ContactLink() string {
	return "https://wa.me/" + s.phone
}

// CartMessage lists every line with its quantity followed by the total.
func (s *Service) CartMessage(c *domcart.Cart, total decimal.Decimal, buyer Buyer) (string, error) {
	if c == nil || c.IsEmpty() {
		return "", ErrEmptyCart
	}

	items := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, fmt.Sprintf("%s: %d unidad(es)", l.Name, l.Quantity))
	}

	var b strings.Builder
	b.WriteString("Hola, quiero comprar los siguientes productos: \n")
	b.WriteString(strings.Join(items, "\n"))
	fmt.Fprintf(&b, "\nEl total es: $%s.", total.StringFixed(2))
	b.WriteString("\n" + buyer.line("Email del comprador"))
	return b.String(), nil
}

// LineMessage asks for one cart line only.
func (s *Service) LineMessage(l domcart.Line, buyer Buyer) string {
	return fmt.Sprintf(
		"Hola, estoy interesado en comprar %s. Quiero comprar %d unidad(es) a %s cada una (total: %s).\n%s",
		l.Name, l.Quantity, l.UnitPrice.StringFixed(2), l.Subtotal().StringFixed(2), buyer.line("Email"),
	)
}

// ProductInquiry is the message of the "ask about this product" button.
func (s *Service) ProductInquiry(p *domproduct.Product) string {
	return fmt.Sprintf("¡Hola! 👋\n\nMe interesa este producto:\n*%s*\n💰 Precio: RD$%s\n\n",
		p.Name, formatAmount(p.Price))
}

// amountLocale groups amounts the way the storefront shows prices (RD$12,500.50).
var amountLocale = language.MustParse("es-DO")

// formatAmount renders 1234.5 as 1,234.50.
func formatAmount(d decimal.Decimal) string {
	p := message.NewPrinter(amountLocale)
	return p.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
