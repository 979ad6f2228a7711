package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventStore đọc event cho các orchestrator, tách khỏi InventoryLedger
// để test không cần Mongo thật.
type EventStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*collections.Event, error)
}

// TicketStore gom các thao tác ghi/đọc vé mà orchestrator cần. Các hàm
// Mark* đều là conditional update: trạng thái hiện tại không còn đúng
// điều kiện thì trả ErrTicketStateConflict, caller coi như thua race.
type TicketStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*collections.Ticket, error)
	FindByTicketNumber(ctx context.Context, ticketNumber string) (*collections.Ticket, error)
	FindByPaymentID(ctx context.Context, paymentID string) ([]collections.Ticket, error)
	CreateMany(ctx context.Context, tickets []collections.Ticket) error
	DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error
	MarkRefundRequested(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) error
	MarkRefunded(ctx context.Context, id primitive.ObjectID, amount int64, at time.Time) error
	MarkUsed(ctx context.Context, id primitive.ObjectID, validatedBy string, at time.Time) error

	// ClaimPayment giành quyền xử lý một payment_id. Hai callback song
	// song chỉ một bên claim được, bên thua nhận ErrPaymentInProgress.
	ClaimPayment(ctx context.Context, paymentID, orderID string, at time.Time) error
	ReleasePaymentClaim(ctx context.Context, paymentID string) error

	// ClaimRefundProcessing khóa vé trước khi gọi gateway hoàn tiền để
	// hai lượt duyệt song song không hoàn tiền hai lần.
	ClaimRefundProcessing(ctx context.Context, id primitive.ObjectID, at time.Time) error
	ReleaseRefundProcessing(ctx context.Context, id primitive.ObjectID, at time.Time) error
}

type MongoEventStore struct{}

func NewMongoEventStore() *MongoEventStore { return &MongoEventStore{} }

func (s *MongoEventStore) FindByID(ctx context.Context, id primitive.ObjectID) (*collections.Event, error) {
	var eventEntry collections.Event
	if err := eventEntry.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrEventNotFound
		}
		return nil, fmt.Errorf("lỗi hệ thống khi tìm sự kiện: %w", err)
	}
	return &eventEntry, nil
}

type MongoTicketStore struct{}

func NewMongoTicketStore() *MongoTicketStore { return &MongoTicketStore{} }

func (s *MongoTicketStore) FindByID(ctx context.Context, id primitive.ObjectID) (*collections.Ticket, error) {
	var ticketEntry collections.Ticket
	if err := ticketEntry.First(ctx, bson.M{"_id": id}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrTicketNotFound
		}
		return nil, fmt.Errorf("lỗi hệ thống khi tìm vé: %w", err)
	}
	return &ticketEntry, nil
}

func (s *MongoTicketStore) FindByTicketNumber(ctx context.Context, ticketNumber string) (*collections.Ticket, error) {
	var ticketEntry collections.Ticket
	if err := ticketEntry.First(ctx, bson.M{"ticket_number": ticketNumber}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrTicketNotFound
		}
		return nil, fmt.Errorf("lỗi hệ thống khi tìm vé: %w", err)
	}
	return &ticketEntry, nil
}

func (s *MongoTicketStore) FindByPaymentID(ctx context.Context, paymentID string) ([]collections.Ticket, error) {
	var ticketEntry collections.Ticket
	tickets, err := ticketEntry.Find(ctx, bson.M{"payment_id": paymentID})
	if err != nil {
		return nil, fmt.Errorf("lỗi hệ thống khi tìm vé theo giao dịch: %w", err)
	}
	return tickets, nil
}

func (s *MongoTicketStore) CreateMany(ctx context.Context, tickets []collections.Ticket) error {
	var ticketEntry collections.Ticket
	if err := ticketEntry.CreateMany(ctx, tickets); err != nil {
		return fmt.Errorf("lỗi hệ thống khi lưu vé: %w", err)
	}
	return nil
}

func (s *MongoTicketStore) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	if len(ids) == 0 {
		return nil
	}
	var ticketEntry collections.Ticket
	if err := ticketEntry.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return fmt.Errorf("lỗi hệ thống khi xóa vé: %w", err)
	}
	return nil
}

func (s *MongoTicketStore) ClaimPayment(ctx context.Context, paymentID, orderID string, at time.Time) error {
	claim := collections.PaymentClaim{PaymentID: paymentID, OrderID: orderID, ClaimedAt: at}
	if err := claim.Create(ctx); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return consts.ErrPaymentInProgress
		}
		return fmt.Errorf("lỗi hệ thống khi giữ chỗ giao dịch: %w", err)
	}
	return nil
}

func (s *MongoTicketStore) ReleasePaymentClaim(ctx context.Context, paymentID string) error {
	claim := collections.PaymentClaim{PaymentID: paymentID}
	if err := claim.Delete(ctx); err != nil {
		return fmt.Errorf("lỗi hệ thống khi nhả giữ chỗ giao dịch: %w", err)
	}
	return nil
}

func (s *MongoTicketStore) ClaimRefundProcessing(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	var ticketEntry collections.Ticket
	err := ticketEntry.Update(ctx,
		bson.M{
			"_id":               id,
			"status":            consts.TicketStatusActive,
			"refund_requested":  true,
			"refund_processing": bson.M{"$ne": true},
		},
		bson.M{"$set": bson.M{
			"refund_processing": true,
			"updated_at":        at,
		}},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return consts.ErrTicketStateConflict
	}
	return err
}

func (s *MongoTicketStore) ReleaseRefundProcessing(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	var ticketEntry collections.Ticket
	err := ticketEntry.Update(ctx,
		bson.M{"_id": id, "refund_processing": true},
		bson.M{"$set": bson.M{
			"refund_processing": false,
			"updated_at":        at,
		}},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return consts.ErrTicketStateConflict
	}
	return err
}

func (s *MongoTicketStore) MarkRefundRequested(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) error {
	var ticketEntry collections.Ticket
	err := ticketEntry.Update(ctx,
		bson.M{
			"_id":              id,
			"status":           consts.TicketStatusActive,
			"payment_status":   consts.PaymentStatusCompleted,
			"refund_requested": bson.M{"$ne": true},
		},
		bson.M{"$set": bson.M{
			"refund_requested":    true,
			"refund_requested_at": at,
			"refund_reason":       reason,
			"updated_at":          at,
		}},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return consts.ErrTicketStateConflict
	}
	return err
}

func (s *MongoTicketStore) MarkRefunded(ctx context.Context, id primitive.ObjectID, amount int64, at time.Time) error {
	var ticketEntry collections.Ticket
	err := ticketEntry.Update(ctx,
		bson.M{
			"_id":              id,
			"status":           consts.TicketStatusActive,
			"refund_requested": true,
		},
		bson.M{"$set": bson.M{
			"status":            consts.TicketStatusRefunded,
			"payment_status":    consts.PaymentStatusRefunded,
			"refund_processing": false,
			"refunded_at":       at,
			"refund_amount":     amount,
			"updated_at":        at,
		}},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return consts.ErrTicketStateConflict
	}
	return err
}

func (s *MongoTicketStore) MarkUsed(ctx context.Context, id primitive.ObjectID, validatedBy string, at time.Time) error {
	var ticketEntry collections.Ticket
	err := ticketEntry.Update(ctx,
		bson.M{
			"_id":               id,
			"status":            consts.TicketStatusActive,
			"payment_status":    consts.PaymentStatusCompleted,
			"refund_processing": bson.M{"$ne": true},
		},
		bson.M{"$set": bson.M{
			"status":       consts.TicketStatusUsed,
			"validated_at": at,
			"validated_by": validatedBy,
			"updated_at":   at,
		}},
	)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return consts.ErrTicketStateConflict
	}
	return err
}
