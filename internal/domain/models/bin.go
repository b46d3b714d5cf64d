package models

import "time"

// BinStatus tracks whether a bin can accept stock.
type BinStatus string

const (
	BinAvailable BinStatus = "available"
	BinBlocked   BinStatus = "blocked"
)

// MixedContent is one SKU line inside a multi-SKU bin.
type MixedContent struct {
	SKU        string     `bson:"sku" json:"sku"`
	Quantity   int        `bson:"quantity" json:"quantity"`
	LotNumber  string     `bson:"lot_number,omitempty" json:"lot_number,omitempty"`
	ExpiryDate *time.Time `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
}

// Bin is a single storage slot addressed by a canonical location code.
// Single-SKU bins use the flat SKU/LotNumber/ExpiryDate fields; bins
// holding several SKUs at once track them in MixedContents, in which case
// CurrentQty equals the sum of the line quantities.
type Bin struct {
	ID            string         `bson:"_id" json:"id"`
	RackID        string         `bson:"rack_id" json:"rack_id"`
	GridNumber    int            `bson:"grid_number" json:"grid_number"`
	Level         string         `bson:"level" json:"level"`
	Position      int            `bson:"position" json:"position"`
	Code          string         `bson:"code" json:"code"`
	Capacity      int            `bson:"capacity" json:"capacity"`
	CurrentQty    int            `bson:"current_qty" json:"current_qty"`
	Status        BinStatus      `bson:"status" json:"status"`
	SKU           string         `bson:"sku,omitempty" json:"sku,omitempty"`
	LotNumber     string         `bson:"lot_number,omitempty" json:"lot_number,omitempty"`
	ExpiryDate    *time.Time     `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	MixedContents []MixedContent `bson:"mixed_contents,omitempty" json:"mixed_contents,omitempty"`
}

// Occupied reports whether the bin holds any stock, checking the mixed
// content lines as well as the flat quantity.
func (b Bin) Occupied() bool {
	if b.CurrentQty > 0 {
		return true
	}
	for _, mc := range b.MixedContents {
		if mc.Quantity > 0 {
			return true
		}
	}
	return false
}

// Contents flattens the bin into (sku, quantity) pairs for error payloads.
func (b Bin) Contents() []BinContent {
	if len(b.MixedContents) > 0 {
		out := make([]BinContent, 0, len(b.MixedContents))
		for _, mc := range b.MixedContents {
			if mc.Quantity > 0 {
				out = append(out, BinContent{Code: b.Code, SKU: mc.SKU, Quantity: mc.Quantity})
			}
		}
		return out
	}
	if b.CurrentQty > 0 {
		return []BinContent{{Code: b.Code, SKU: b.SKU, Quantity: b.CurrentQty}}
	}
	return nil
}

// BinContent is a single (bin, sku, quantity) line reported back to callers
// when an operation is rejected because stock is still present.
type BinContent struct {
	Code     string `json:"code"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}
