package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefundOrchestrator điều phối hai pha hoàn tiền: người mua yêu cầu,
// organizer duyệt. Tiền chỉ đi qua gateway ở pha duyệt, và gateway phải
// thành công TRƯỚC khi trạng thái nội bộ thay đổi; gateway lỗi thì vé
// và kho giữ nguyên để thử lại được.
type RefundOrchestrator struct {
	Tickets TicketStore
	Events  EventStore
	Ledger  InventoryLedger
	Gateway PaymentGateway

	// DefaultRefundDays dùng khi sự kiện không cấu hình hạn chót riêng.
	DefaultRefundDays int
	Now               func() time.Time
}

func NewRefundOrchestrator(tickets TicketStore, events EventStore, ledger InventoryLedger, gateway PaymentGateway, defaultRefundDays int) *RefundOrchestrator {
	return &RefundOrchestrator{
		Tickets:           tickets,
		Events:            events,
		Ledger:            ledger,
		Gateway:           gateway,
		DefaultRefundDays: defaultRefundDays,
		Now:               time.Now,
	}
}

// RequestRefund ghi nhận yêu cầu hoàn tiền của chính chủ vé. Chỉ vé
// active, đã thanh toán, chưa yêu cầu trước đó và còn trong hạn hoàn
// tiền của sự kiện mới được nhận.
func (o *RefundOrchestrator) RequestRefund(ctx context.Context, ticketID, actorID primitive.ObjectID, reason string) (*collections.Ticket, error) {
	ticketEntry, err := o.Tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if ticketEntry.AttendeeID != actorID {
		return nil, consts.ErrUnauthorizedActor
	}
	if ticketEntry.RefundRequested {
		return nil, consts.ErrRefundAlreadyRequested
	}

	eventEntry, err := o.Events.FindByID(ctx, ticketEntry.EventID)
	if err != nil {
		return nil, err
	}
	if !eventEntry.Settings.AllowRefunds {
		return nil, consts.ErrRefundNotAllowed
	}

	refundDays := eventEntry.Settings.RefundDaysBeforeEvent
	if refundDays <= 0 {
		refundDays = o.DefaultRefundDays
	}

	now := o.Now()
	if !ticketEntry.CanBeRefunded(now, refundDays) {
		return nil, consts.ErrTicketNotRefundable
	}

	if err := o.Tickets.MarkRefundRequested(ctx, ticketID, reason, now); err != nil {
		return nil, err
	}

	ticketEntry.RefundRequested = true
	ticketEntry.RefundRequestedAt = &now
	ticketEntry.RefundReason = reason
	return ticketEntry, nil
}

// ProcessRefund là pha duyệt của organizer. Thứ tự bắt buộc: gọi gateway
// hoàn tiền, chuyển vé sang refunded, rồi hoàn 1 đơn vị kho. Hai bước
// sau thất bại thì không rollback được tiền đã hoàn nên chỉ ghi log
// CRITICAL để đối soát tay.
func (o *RefundOrchestrator) ProcessRefund(ctx context.Context, ticketID, organizerID primitive.ObjectID) (*collections.Ticket, error) {
	ticketEntry, err := o.Tickets.FindByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !ticketEntry.RefundRequested {
		return nil, consts.ErrRefundNotRequested
	}
	if ticketEntry.Status != consts.TicketStatusActive {
		return nil, consts.ErrTicketStateConflict
	}

	eventEntry, err := o.Events.FindByID(ctx, ticketEntry.EventID)
	if err != nil {
		return nil, err
	}
	if eventEntry.OrganizerID != organizerID {
		return nil, consts.ErrUnauthorizedActor
	}

	// Khóa vé trước khi gọi gateway: hai organizer duyệt cùng lúc thì
	// chỉ một bên được gọi hoàn tiền, bên thua nhận lỗi conflict ngay
	// tại đây thay vì để gateway bị yêu cầu hoàn hai lần.
	if err := o.Tickets.ClaimRefundProcessing(ctx, ticketID, o.Now()); err != nil {
		return nil, err
	}

	refundID, err := o.Gateway.Refund(ctx, ticketEntry.PaymentID, ticketEntry.Price)
	if err != nil {
		// Nhả khóa để lượt duyệt sau còn thử lại được.
		if releaseErr := o.Tickets.ReleaseRefundProcessing(ctx, ticketID, o.Now()); releaseErr != nil {
			log.Printf("CRITICAL: gateway hoàn tiền thất bại và không nhả được khóa vé %s: %v", ticketEntry.TicketNumber, releaseErr)
		}
		return nil, fmt.Errorf("%w: %v", consts.ErrGatewayFailure, err)
	}
	log.Printf("INFO: gateway đã hoàn tiền giao dịch %s, refund=%s", ticketEntry.PaymentID, refundID)

	now := o.Now()
	if err := o.Tickets.MarkRefunded(ctx, ticketID, ticketEntry.Price, now); err != nil {
		log.Printf("CRITICAL: tiền đã hoàn nhưng không chuyển được vé %s sang refunded: %v", ticketEntry.TicketNumber, err)
		return nil, err
	}

	if err := o.Ledger.Release(ctx, ticketEntry.EventID, ticketEntry.TicketTypeID, 1); err != nil {
		log.Printf("CRITICAL: vé %s đã refunded nhưng hoàn kho thất bại: %v", ticketEntry.TicketNumber, err)
	}

	ticketEntry.Status = consts.TicketStatusRefunded
	ticketEntry.PaymentStatus = consts.PaymentStatusRefunded
	ticketEntry.RefundedAt = &now
	ticketEntry.RefundAmount = ticketEntry.Price
	return ticketEntry, nil
}
