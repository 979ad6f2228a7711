package collections

import (
	"EventManagement/consts"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSaleWindowOpen(t *testing.T) {
	now := time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

	// Không giới hạn hai phía
	tt := TicketType{}
	assert.True(t, tt.SaleWindowOpen(now))

	// Chưa tới giờ mở bán
	tt = TicketType{SaleStart: now.Add(time.Hour)}
	assert.False(t, tt.SaleWindowOpen(now))

	// Đang trong cửa sổ
	tt = TicketType{SaleStart: now.Add(-time.Hour), SaleEnd: now.Add(time.Hour)}
	assert.True(t, tt.SaleWindowOpen(now))

	// Hết giờ, sale_end là mốc loại trừ
	tt = TicketType{SaleEnd: now}
	assert.False(t, tt.SaleWindowOpen(now))

	tt = TicketType{SaleEnd: now.Add(-time.Minute)}
	assert.False(t, tt.SaleWindowOpen(now))
}

func TestTicketIsValid(t *testing.T) {
	now := time.Now()
	future := now.AddDate(0, 0, 10)

	ticket := Ticket{
		Status:        consts.TicketStatusActive,
		PaymentStatus: consts.PaymentStatusCompleted,
		EventDate:     future,
	}
	assert.True(t, ticket.IsValid(now))

	used := ticket
	used.Status = consts.TicketStatusUsed
	assert.False(t, used.IsValid(now))

	pending := ticket
	pending.PaymentStatus = consts.PaymentStatusPending
	assert.False(t, pending.IsValid(now))

	past := ticket
	past.EventDate = now.AddDate(0, 0, -1)
	assert.True(t, past.IsExpired(now))
	assert.False(t, past.IsValid(now))
}

func TestTicketCanBeRefunded(t *testing.T) {
	now := time.Now()

	ticket := Ticket{
		Status:        consts.TicketStatusActive,
		PaymentStatus: consts.PaymentStatusCompleted,
		EventDate:     now.AddDate(0, 0, 30),
	}
	assert.True(t, ticket.CanBeRefunded(now, 7))

	// Còn 3 ngày, hạn chót 7 ngày trước sự kiện
	late := ticket
	late.EventDate = now.AddDate(0, 0, 3)
	assert.False(t, late.CanBeRefunded(now, 7))

	refunded := ticket
	refunded.Status = consts.TicketStatusRefunded
	assert.False(t, refunded.CanBeRefunded(now, 7))

	unpaid := ticket
	unpaid.PaymentStatus = consts.PaymentStatusPending
	assert.False(t, unpaid.CanBeRefunded(now, 7))
}
