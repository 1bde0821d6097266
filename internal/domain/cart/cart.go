package cart

import "github.com/shopspring/decimal"

// LineItem references a product by id. UnitPrice is captured when the item
// is added and does not follow later catalog price changes.
type LineItem struct {
	ProductID int64
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	Image     string
}

func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type Cart struct {
	Items []LineItem
	Total decimal.Decimal
	Count int
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
