package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// slotLine is the stored shape of a line. Field names are the storefront's
// vocabulary and must stay stable for carts already saved in browsers.
type slotLine struct {
	ProductID int64       `json:"productId"`
	Nombre    string      `json:"nombre"`
	Precio    json.Number `json:"precio"`
	Stock     int64       `json:"stock"`
	ImagenURL string      `json:"imagenURL"`
	Cantidad  int64       `json:"cantidad"`

	// carts written by the first storefront release used "productoId"
	LegacyProductID int64 `json:"productoId,omitempty"`
}

// EncodeSlot serializes lines into the durable slot format. Prices are written
// as JSON numbers from the decimal's exact text.
func EncodeSlot(lines []Line) ([]byte, error) {
	out := make([]slotLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, slotLine{
			ProductID: l.ProductID,
			Nombre:    l.Name,
			Precio:    json.Number(l.UnitPrice.String()),
			Stock:     l.AvailableStock,
			ImagenURL: l.ImageURL,
			Cantidad:  l.Quantity,
		})
	}
	return json.Marshal(out)
}

// DecodeSlot parses a durable slot. Any parse failure wraps ErrMalformedDurableData.
func DecodeSlot(data []byte) ([]Line, error) {
	var raw []slotLine
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDurableData, err)
	}

	lines := make([]Line, 0, len(raw))
	for i, r := range raw {
		id := r.ProductID
		if id == 0 {
			id = r.LegacyProductID
		}
		price := decimal.Zero
		if r.Precio != "" {
			p, err := decimal.NewFromString(r.Precio.String())
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: precio %q", ErrMalformedDurableData, i, r.Precio)
			}
			price = p
		}
		lines = append(lines, Line{
			ProductID:      id,
			Name:           r.Nombre,
			UnitPrice:      price,
			AvailableStock: r.Stock,
			ImageURL:       r.ImagenURL,
			Quantity:       r.Cantidad,
		})
	}
	return lines, nil
}
