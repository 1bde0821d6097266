package events

import (
	"time"

	"github.com/hamba/avro/v2"

	domorder "example.com/storefront/internal/domain/order"
)

const OrderPlacedSchemaTextV1 = `{
	"type": "record",
	"namespace": "storefront",
	"name": "order_placed",
	"fields": [
		{"name": "order_id", "type": "string"},
		{"name": "status", "type": "string"},
		{"name": "total", "type": "string"},
		{"name": "item_count", "type": "int"},
		{"name": "items", "type": {"type": "array", "items": {
			"type": "record",
			"name": "order_item",
			"fields": [
				{"name": "product_id", "type": "long"},
				{"name": "name", "type": "string"},
				{"name": "unit_price", "type": "string"},
				{"name": "quantity", "type": "int"}
			]
		}}},
		{"name": "country", "type": "string"},
		{"name": "email", "type": "string"},
		{"name": "card_last4", "type": "string"},
		{"name": "placed_at", "type": {"type": "long", "logicalType": "timestamp-millis"}}
	]
}`

var orderPlacedSchemaV1 = avro.MustParse(OrderPlacedSchemaTextV1)

type (
	OrderPlacedV1 struct {
		OrderID   string        `avro:"order_id"`
		Status    string        `avro:"status"`
		Total     string        `avro:"total"`
		ItemCount int           `avro:"item_count"`
		Items     []OrderItemV1 `avro:"items"`
		Country   string        `avro:"country"`
		Email     string        `avro:"email"`
		CardLast4 string        `avro:"card_last4"`
		PlacedAt  time.Time     `avro:"placed_at"`
	}

	OrderItemV1 struct {
		ProductID int64  `avro:"product_id"`
		Name      string `avro:"name"`
		UnitPrice string `avro:"unit_price"`
		Quantity  int    `avro:"quantity"`
	}
)

// Amounts travel as decimal strings so no precision is lost on the wire.
func orderToSchemaV1(o *domorder.Order) (s OrderPlacedV1) {
	s.OrderID = o.ID
	s.Status = string(o.Status)
	s.Total = o.Total.StringFixed(2)
	s.ItemCount = o.ItemCount
	s.Country = string(o.Shipping.Country)
	s.Email = o.Shipping.Email
	s.CardLast4 = o.CardLast4
	s.PlacedAt = o.PlacedAt.UTC()

	s.Items = make([]OrderItemV1, len(o.Items))
	for i, item := range o.Items {
		s.Items[i].ProductID = item.ProductID
		s.Items[i].Name = item.Name
		s.Items[i].UnitPrice = item.UnitPrice.StringFixed(2)
		s.Items[i].Quantity = item.Quantity
	}
	return
}

func EncodeOrderPlacedV1(v OrderPlacedV1) ([]byte, error) {
	return avro.Marshal(orderPlacedSchemaV1, v)
}

func DecodeOrderPlacedV1(data []byte) (OrderPlacedV1, error) {
	var v OrderPlacedV1
	err := avro.Unmarshal(orderPlacedSchemaV1, data, &v)
	return v, err
}
