package order

import (
	"time"

	"github.com/shopspring/decimal"

	domcart "example.com/storefront/internal/domain/cart"
)

type Status string

const (
	StatusPaid Status = "PAID"
)

type Country string

const (
	CountryUSA    Country = "USA"
	CountryCanada Country = "Canada"
	CountryUK     Country = "UK"
)

func (c Country) IsValid() bool {
	switch c {
	case CountryUSA, CountryCanada, CountryUK:
		return true
	default:
		return false
	}
}

type ShippingAddress struct {
	Name    string
	Address string
	City    string
	Zip     string
	Country Country
	Email   string
}

type PaymentInfo struct {
	CardName   string
	CardNumber string
	ExpiryDate string
	CVV        string
}

// Last4 returns the trailing four digits of the card number.
func (p PaymentInfo) Last4() string {
	digits := make([]byte, 0, len(p.CardNumber))
	for i := 0; i < len(p.CardNumber); i++ {
		if c := p.CardNumber[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

type Order struct {
	ID        string
	Status    Status
	Items     []domcart.LineItem
	Total     decimal.Decimal
	ItemCount int
	Shipping  ShippingAddress
	CardLast4 string
	PlacedAt  time.Time
}
