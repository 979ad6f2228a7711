package service

import (
	"EventManagement/consts"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Số lượng không hợp lệ phải bị chặn ngay trước khi động vào DB.
func TestMongoLedgerSoLuongKhongHople(t *testing.T) {
	ledger := NewMongoInventoryLedger()
	eventID := primitive.NewObjectID()
	ticketTypeID := primitive.NewObjectID()

	for _, quantity := range []int{0, -1} {
		_, _, err := ledger.Reserve(context.Background(), eventID, ticketTypeID, quantity)
		assert.ErrorIs(t, err, consts.ErrInvalidQuantity)

		err = ledger.Release(context.Background(), eventID, ticketTypeID, quantity)
		assert.ErrorIs(t, err, consts.ErrInvalidQuantity)
	}
}
