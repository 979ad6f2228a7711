package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// InventoryLedger quản lý quota của từng loại vé. Reserve/Release là
// lối vào DUY NHẤT được phép thay đổi sold_quantity/available_quantity.
type InventoryLedger interface {
	// Reserve trừ kho nguyên tử: thành công thì trả về snapshot của
	// event và loại vé tại thời điểm kiểm tra để caller phát hành vé.
	Reserve(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int) (*collections.Event, *collections.TicketType, error)

	// Release hoàn kho, dùng khi hoàn tiền hoặc khi abort một lượt mua
	// đã trừ kho. Phải đi đôi 1:1 với một Reserve thành công trước đó;
	// hoàn vượt quá số đã bán bị từ chối với ErrInvalidRelease.
	Release(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int) error
}

// MongoInventoryLedger cài InventoryLedger trên document events:
// reserve là một UpdateOne có điều kiện trên phần tử mảng ticket_types,
// nên hai lượt mua tranh nhau đơn vị cuối cùng chỉ có một lượt match.
type MongoInventoryLedger struct {
	Now func() time.Time
}

func NewMongoInventoryLedger() *MongoInventoryLedger {
	return &MongoInventoryLedger{Now: time.Now}
}

func (l *MongoInventoryLedger) Reserve(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int) (*collections.Event, *collections.TicketType, error) {
	if quantity <= 0 {
		return nil, nil, consts.ErrInvalidQuantity
	}

	var eventEntry collections.Event
	if err := eventEntry.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, consts.ErrEventNotFound
		}
		return nil, nil, fmt.Errorf("lỗi hệ thống khi tìm sự kiện: %w", err)
	}

	ticketType := eventEntry.TicketTypeByID(ticketTypeID)
	if ticketType == nil {
		return nil, nil, consts.ErrTicketTypeNotFound
	}

	now := l.Now()
	// Kiểm tra trước để trả lỗi đúng loại; quyết định cuối cùng vẫn
	// nằm ở conditional update bên dưới.
	if !ticketType.Active {
		return nil, nil, consts.ErrTicketTypeInactive
	}
	if !ticketType.SaleWindowOpen(now) {
		return nil, nil, consts.ErrOutsideSaleWindow
	}
	if ticketType.AvailableQuantity < quantity {
		return nil, nil, consts.ErrInsufficientInventory
	}

	err := eventEntry.ReserveTicketType(ctx, eventID, ticketTypeID, quantity, now)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Snapshot đã cũ: vé vừa hết (hoặc vừa bị khóa) trong lúc thao tác.
			return nil, nil, consts.ErrInsufficientInventory
		}
		return nil, nil, fmt.Errorf("lỗi hệ thống khi trừ kho vé: %w", err)
	}

	return &eventEntry, ticketType, nil
}

func (l *MongoInventoryLedger) Release(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int) error {
	if quantity <= 0 {
		return consts.ErrInvalidQuantity
	}

	var eventEntry collections.Event
	err := eventEntry.ReleaseTicketType(ctx, eventID, ticketTypeID, quantity, l.Now())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return consts.ErrInvalidRelease
		}
		return fmt.Errorf("lỗi hệ thống khi hoàn kho vé: %w", err)
	}
	return nil
}
