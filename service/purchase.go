package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentGateway là cổng thanh toán bên ngoài (Razorpay). Mọi lỗi từ
// gateway được orchestrator bọc lại thành ErrGatewayFailure.
type PaymentGateway interface {
	// CreateOrder tạo order phía gateway với số tiền do server tự tính,
	// trả về orderID để client mở form thanh toán.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)

	// Refund yêu cầu gateway hoàn tiền cho một giao dịch đã capture.
	Refund(ctx context.Context, paymentID string, amount int64) (string, error)
}

// TicketNotifier gửi vé cho người mua sau khi thanh toán thành công.
// Gửi lỗi không làm hỏng giao dịch, orchestrator chỉ ghi log.
type TicketNotifier interface {
	Send(ctx context.Context, tickets []collections.Ticket) error
}

// PurchaseOrchestrator điều phối toàn bộ luồng mua vé: tạo order, xác
// thực chữ ký callback, trừ kho, phát hành vé và gửi mail. Bất biến
// quan trọng nhất: một lượt mua N vé hoặc tạo ra đúng N vé kèm đúng
// một lần trừ kho N đơn vị, hoặc không để lại dấu vết nào.
type PurchaseOrchestrator struct {
	Ledger   InventoryLedger
	Tickets  TicketStore
	Events   EventStore
	Verifier *PaymentVerifier
	Gateway  PaymentGateway
	Notifier TicketNotifier
	Issuer   TicketIssuer
	Now      func() time.Time
}

func NewPurchaseOrchestrator(ledger InventoryLedger, tickets TicketStore, events EventStore, verifier *PaymentVerifier, gateway PaymentGateway, notifier TicketNotifier) *PurchaseOrchestrator {
	return &PurchaseOrchestrator{
		Ledger:   ledger,
		Tickets:  tickets,
		Events:   events,
		Verifier: verifier,
		Gateway:  gateway,
		Notifier: notifier,
		Now:      time.Now,
	}
}

// Order là kết quả CreateOrder trả cho client.
type Order struct {
	OrderID  string
	Amount   int64
	Currency string
	Receipt  string
}

// CreateOrder tính tiền phía server (đơn giá x số lượng, không tin số
// tiền từ client) rồi tạo order trên gateway. Chưa trừ kho ở bước này;
// kho chỉ bị trừ khi callback thanh toán được xác thực.
func (o *PurchaseOrchestrator) CreateOrder(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int, currency string) (*Order, error) {
	if quantity <= 0 {
		return nil, consts.ErrInvalidQuantity
	}

	eventEntry, err := o.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ticketType := eventEntry.TicketTypeByID(ticketTypeID)
	if ticketType == nil {
		return nil, consts.ErrTicketTypeNotFound
	}

	now := o.Now()
	if !ticketType.Active {
		return nil, consts.ErrTicketTypeInactive
	}
	if !ticketType.SaleWindowOpen(now) {
		return nil, consts.ErrOutsideSaleWindow
	}
	if ticketType.AvailableQuantity < quantity {
		return nil, consts.ErrInsufficientInventory
	}

	amount := ticketType.Price * int64(quantity)
	receipt := newReceiptRef(now)

	orderID, err := o.Gateway.CreateOrder(ctx, amount, currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", consts.ErrGatewayFailure, err)
	}

	return &Order{OrderID: orderID, Amount: amount, Currency: currency, Receipt: receipt}, nil
}

// PurchaseInput gom tham số của một lượt mua đã thanh toán xong.
type PurchaseInput struct {
	EventID       primitive.ObjectID
	TicketTypeID  primitive.ObjectID
	Quantity      int
	Attendee      Attendee
	PaymentMethod string
	PaymentID     string
}

// Purchase trừ kho rồi phát hành vé. Nếu ghi vé thất bại sau khi đã trừ
// kho thì dọn sạch dấu vết để giữ bất biến N-hoặc-0: InsertMany của
// Mongo mặc định là ordered nên có thể đã ghi được một phần đầu lô,
// phải xóa hết vé của lô theo _id trước rồi mới hoàn kho. Xóa thất bại
// thì KHÔNG hoàn kho (hoàn kho khi vé mồ côi còn nằm trong DB sẽ gây
// oversell), chỉ ghi log CRITICAL để đối soát tay.
func (o *PurchaseOrchestrator) Purchase(ctx context.Context, in PurchaseInput) ([]collections.Ticket, error) {
	eventEntry, ticketType, err := o.Ledger.Reserve(ctx, in.EventID, in.TicketTypeID, in.Quantity)
	if err != nil {
		return nil, err
	}

	now := o.Now()
	tickets := make([]collections.Ticket, 0, in.Quantity)
	ids := make([]primitive.ObjectID, 0, in.Quantity)
	for i := 0; i < in.Quantity; i++ {
		ticketEntry := o.Issuer.Issue(eventEntry, ticketType, in.Attendee, in.PaymentMethod, consts.PaymentStatusCompleted, now)
		ticketEntry.PaymentID = in.PaymentID
		tickets = append(tickets, ticketEntry)
		ids = append(ids, ticketEntry.ID)
	}

	if err := o.Tickets.CreateMany(ctx, tickets); err != nil {
		if deleteErr := o.Tickets.DeleteByIDs(ctx, ids); deleteErr != nil {
			log.Printf("CRITICAL: lưu vé thất bại giữa chừng và không xóa được phần đã ghi, kho đang giữ chỗ, event=%s type=%s qty=%d: %v",
				in.EventID.Hex(), in.TicketTypeID.Hex(), in.Quantity, deleteErr)
			return nil, err
		}
		if releaseErr := o.Ledger.Release(ctx, in.EventID, in.TicketTypeID, in.Quantity); releaseErr != nil {
			log.Printf("CRITICAL: không hoàn được kho sau khi lưu vé thất bại, event=%s type=%s qty=%d: %v",
				in.EventID.Hex(), in.TicketTypeID.Hex(), in.Quantity, releaseErr)
		}
		return nil, err
	}

	return tickets, nil
}

// PurchaseFree phát hành vé miễn phí, không đi qua gateway. Loại vé có
// giá lớn hơn 0 bắt buộc phải thanh toán nên bị từ chối ở đây.
func (o *PurchaseOrchestrator) PurchaseFree(ctx context.Context, in PurchaseInput) ([]collections.Ticket, error) {
	eventEntry, err := o.Events.FindByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	ticketType := eventEntry.TicketTypeByID(in.TicketTypeID)
	if ticketType == nil {
		return nil, consts.ErrTicketTypeNotFound
	}
	if ticketType.Price > 0 {
		return nil, consts.ErrPaymentRequired
	}

	in.PaymentMethod = "free"
	tickets, err := o.Purchase(ctx, in)
	if err != nil {
		return nil, err
	}

	if o.Notifier != nil {
		if err := o.Notifier.Send(ctx, tickets); err != nil {
			log.Printf("WARN: gửi mail vé miễn phí cho %s thất bại: %v", in.Attendee.Email, err)
		}
	}
	return tickets, nil
}

// SettleInput là payload callback từ gateway sau khi người mua trả tiền.
type SettleInput struct {
	OrderID   string
	PaymentID string
	Signature string
	Purchase  PurchaseInput
}

// VerifyAndSettle là điểm chốt của luồng thanh toán: xác thực chữ ký
// TRƯỚC khi động vào kho, chống phát vé trùng khi gateway gửi lại
// callback, rồi mới mua và gửi mail. Callback lặp lại với cùng
// paymentID trả về đúng lô vé đã phát, không trừ kho lần hai.
func (o *PurchaseOrchestrator) VerifyAndSettle(ctx context.Context, in SettleInput) ([]collections.Ticket, error) {
	ok, err := o.Verifier.Verify(in.OrderID, in.PaymentID, in.Signature)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, consts.ErrSignatureMismatch
	}

	existing, err := o.Tickets.FindByPaymentID(ctx, in.PaymentID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		log.Printf("INFO: callback lặp lại cho giao dịch %s, trả về %d vé đã phát", in.PaymentID, len(existing))
		return existing, nil
	}

	// Giữ chỗ paymentID trước khi phát vé. Đọc-rồi-mới-ghi ở trên chỉ
	// là đường tắt cho callback lặp lại tuần tự; hai callback chạy song
	// song đều thấy chưa có vé, phải phân thắng thua bằng claim nguyên
	// tử này để giao dịch không bao giờ được settle hai lần.
	if err := o.Tickets.ClaimPayment(ctx, in.PaymentID, in.OrderID, o.Now()); err != nil {
		if errors.Is(err, consts.ErrPaymentInProgress) {
			settled, ferr := o.Tickets.FindByPaymentID(ctx, in.PaymentID)
			if ferr == nil && len(settled) > 0 {
				log.Printf("INFO: callback lặp lại cho giao dịch %s, trả về %d vé đã phát", in.PaymentID, len(settled))
				return settled, nil
			}
		}
		return nil, err
	}

	in.Purchase.PaymentID = in.PaymentID
	tickets, err := o.Purchase(ctx, in.Purchase)
	if err != nil {
		// Nhả claim để callback sau còn settle lại được (vd hết kho tạm thời).
		if releaseErr := o.Tickets.ReleasePaymentClaim(ctx, in.PaymentID); releaseErr != nil {
			log.Printf("CRITICAL: không nhả được claim của giao dịch %s, callback sau sẽ bị chặn: %v", in.PaymentID, releaseErr)
		}
		return nil, err
	}

	if o.Notifier != nil {
		if err := o.Notifier.Send(ctx, tickets); err != nil {
			log.Printf("WARN: gửi mail vé cho giao dịch %s thất bại: %v", in.PaymentID, err)
		}
	}

	return tickets, nil
}

// newReceiptRef sinh mã biên nhận nội bộ cho order, chỉ cần duy nhất
// trong phạm vi đối soát.
func newReceiptRef(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("EVT-%s-%s", now.Format("20060102"), random)
}
