package collections

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TicketType là sub-document nằm trong mảng ticket_types của Event.
// Bất biến: SoldQuantity + AvailableQuantity == TotalQuantity.
// Hai field số lượng chỉ được thay đổi qua ReserveTicketType/ReleaseTicketType.
type TicketType struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	// Đơn vị nhỏ nhất của tiền tệ (vd: paise, cent). 0 nếu là vé miễn phí.
	Price int64 `bson:"price" json:"price"`

	TotalQuantity     int `bson:"total_quantity" json:"total_quantity"`
	SoldQuantity      int `bson:"sold_quantity" json:"sold_quantity"`
	AvailableQuantity int `bson:"available_quantity" json:"available_quantity"`

	Active bool `bson:"active" json:"active"`

	// Cửa sổ mở bán [sale_start, sale_end). Zero value = không giới hạn phía đó.
	SaleStart time.Time `bson:"sale_start,omitempty" json:"sale_start,omitempty"`
	SaleEnd   time.Time `bson:"sale_end,omitempty" json:"sale_end,omitempty"`

	Benefits []string `bson:"benefits,omitempty" json:"benefits,omitempty"`
}

type TicketTypes []TicketType

// SaleWindowOpen kiểm tra now có nằm trong cửa sổ mở bán không.
func (t *TicketType) SaleWindowOpen(now time.Time) bool {
	if !t.SaleStart.IsZero() && now.Before(t.SaleStart) {
		return false
	}
	if !t.SaleEnd.IsZero() && !now.Before(t.SaleEnd) {
		return false
	}
	return true
}
