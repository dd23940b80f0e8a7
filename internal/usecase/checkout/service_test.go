package checkout

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domcart "example.com/phonestore/internal/domain/cart"
	domproduct "example.com/phonestore/internal/domain/product"
)

func sampleCart() *domcart.Cart {
	c := domcart.New(domcart.OwnerFor("u1"))
	c.Lines = []domcart.Line{
		{ProductID: 1, Name: "Cover iPhone 14", UnitPrice: decimal.NewFromInt(450), AvailableStock: 5, Quantity: 2},
		{ProductID: 2, Name: "Cargador 20W", UnitPrice: decimal.RequireFromString("899.90"), AvailableStock: 3, Quantity: 1},
	}
	return c
}

func TestNewService_KeepsDigitsOnly(t *testing.T) {
	svc := NewService("+1 (809) 555-0101")

	require.Equal(t, "https://wa.me/18095550101", svc.ContactLink())
}

func TestLink_EncodesSpaces(t *testing.T) {
	svc := NewService("18095550101")

	link := svc.Link("Hola, mundo & más")

	require.Equal(t, "https://wa.me/18095550101?text=Hola%2C%20mundo%20%26%20m%C3%A1s", link)
}

func TestCartMessage(t *testing.T) {
	svc := NewService("18095550101")

	msg, err := svc.CartMessage(sampleCart(), decimal.RequireFromString("1799.9"), Buyer{Email: "ana@example.com"})

	require.NoError(t, err)
	require.Equal(t,
		"Hola, quiero comprar los siguientes productos: \n"+
			"Cover iPhone 14: 2 unidad(es)\n"+
			"Cargador 20W: 1 unidad(es)\n"+
			"El total es: $1799.90.\n"+
			"Email del comprador: ana@example.com",
		msg,
	)
}

func TestCartMessage_Guest(t *testing.T) {
	svc := NewService("18095550101")

	msg, err := svc.CartMessage(sampleCart(), decimal.NewFromInt(10), Buyer{})

	require.NoError(t, err)
	require.Contains(t, msg, "\nCompra como invitado")
	require.NotContains(t, msg, "Email")
}

func TestCartMessage_Empty(t *testing.T) {
	svc := NewService("18095550101")

	_, err := svc.CartMessage(domcart.New(domcart.GuestOwner), decimal.Zero, Buyer{})
	require.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.CartMessage(nil, decimal.Zero, Buyer{})
	require.ErrorIs(t, err, ErrEmptyCart)
}

func TestLineMessage(t *testing.T) {
	svc := NewService("18095550101")
	line := sampleCart().Lines[0]

	msg := svc.LineMessage(line, Buyer{Email: "ana@example.com"})

	require.Equal(t,
		"Hola, estoy interesado en comprar Cover iPhone 14. Quiero comprar 2 unidad(es) a 450.00 cada una (total: 900.00).\nEmail: ana@example.com",
		msg,
	)
}

func TestProductInquiry(t *testing.T) {
	svc := NewService("18095550101")

	msg := svc.ProductInquiry(&domproduct.Product{Name: "Pantalla iPhone 13", Price: decimal.RequireFromString("12500.5")})

	require.Equal(t, "¡Hola! 👋\n\nMe interesa este producto:\n*Pantalla iPhone 13*\n💰 Precio: RD$12,500.50\n\n", msg)
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "0.00"},
		{in: "999.999", want: "1,000.00"},
		{in: "1234567.1", want: "1,234,567.10"},
		{in: "-1500", want: "-1,500.00"},
		{in: "12500.5", want: "12,500.50"},
		{in: "1000000", want: "1,000,000.00"},
		{in: "0.005", want: "0.01"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, formatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}
