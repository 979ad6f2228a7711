package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeLedger giữ kho trong bộ nhớ với mutex, mô phỏng đúng ngữ nghĩa
// conditional update: hai goroutine tranh đơn vị cuối chỉ một bên thắng.
type fakeLedger struct {
	mu    sync.Mutex
	event *collections.Event

	reserveCalls int
	releaseCalls int
	releaseErr   error
}

func newFakeLedger(event *collections.Event) *fakeLedger {
	return &fakeLedger{event: event}
}

func (f *fakeLedger) Reserve(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int) (*collections.Event, *collections.TicketType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.reserveCalls++
	if quantity <= 0 {
		return nil, nil, consts.ErrInvalidQuantity
	}
	if f.event == nil || f.event.ID != eventID {
		return nil, nil, consts.ErrEventNotFound
	}
	tt := f.event.TicketTypeByID(ticketTypeID)
	if tt == nil {
		return nil, nil, consts.ErrTicketTypeNotFound
	}
	if !tt.Active {
		return nil, nil, consts.ErrTicketTypeInactive
	}
	if !tt.SaleWindowOpen(time.Now()) {
		return nil, nil, consts.ErrOutsideSaleWindow
	}
	if tt.AvailableQuantity < quantity {
		return nil, nil, consts.ErrInsufficientInventory
	}

	tt.AvailableQuantity -= quantity
	tt.SoldQuantity += quantity

	eventCopy := *f.event
	ttCopy := *tt
	return &eventCopy, &ttCopy, nil
}

func (f *fakeLedger) Release(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.releaseCalls++
	if f.releaseErr != nil {
		return f.releaseErr
	}
	if quantity <= 0 {
		return consts.ErrInvalidQuantity
	}
	if f.event == nil || f.event.ID != eventID {
		return consts.ErrInvalidRelease
	}
	tt := f.event.TicketTypeByID(ticketTypeID)
	if tt == nil || tt.SoldQuantity < quantity {
		return consts.ErrInvalidRelease
	}

	tt.AvailableQuantity += quantity
	tt.SoldQuantity -= quantity
	return nil
}

func (f *fakeLedger) available(ticketTypeID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tt := f.event.TicketTypeByID(ticketTypeID); tt != nil {
		return tt.AvailableQuantity
	}
	return -1
}

func (f *fakeLedger) sold(ticketTypeID primitive.ObjectID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if tt := f.event.TicketTypeByID(ticketTypeID); tt != nil {
		return tt.SoldQuantity
	}
	return -1
}

// fakeTicketStore giữ vé trong map, các hàm Mark* giữ đúng ngữ nghĩa
// conditional update của bản Mongo. createErr mô phỏng InsertMany lỗi;
// kèm partialInsert > 0 thì chừng đó vé đầu lô vẫn được ghi trước khi
// lỗi trả về, giống hành vi ordered InsertMany.
type fakeTicketStore struct {
	mu      sync.Mutex
	tickets map[primitive.ObjectID]*collections.Ticket
	claims  map[string]string

	createErr     error
	partialInsert int
	deleteErr     error

	// độ trễ nhân tạo cho FindByPaymentID, để ép hai callback song song
	// cùng thấy "chưa có vé"
	findDelay time.Duration
}

func newFakeTicketStore() *fakeTicketStore {
	return &fakeTicketStore{
		tickets: make(map[primitive.ObjectID]*collections.Ticket),
		claims:  make(map[string]string),
	}
}

func (f *fakeTicketStore) FindByID(ctx context.Context, id primitive.ObjectID) (*collections.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tickets[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, consts.ErrTicketNotFound
}

func (f *fakeTicketStore) FindByTicketNumber(ctx context.Context, ticketNumber string) (*collections.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.TicketNumber == ticketNumber {
			copied := *t
			return &copied, nil
		}
	}
	return nil, consts.ErrTicketNotFound
}

func (f *fakeTicketStore) FindByPaymentID(ctx context.Context, paymentID string) ([]collections.Ticket, error) {
	if f.findDelay > 0 {
		time.Sleep(f.findDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []collections.Ticket
	for _, t := range f.tickets {
		if t.PaymentID == paymentID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeTicketStore) CreateMany(ctx context.Context, tickets []collections.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		for i := 0; i < f.partialInsert && i < len(tickets); i++ {
			copied := tickets[i]
			f.tickets[copied.ID] = &copied
		}
		return f.createErr
	}
	for i := range tickets {
		copied := tickets[i]
		f.tickets[copied.ID] = &copied
	}
	return nil
}

func (f *fakeTicketStore) DeleteByIDs(ctx context.Context, ids []primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, id := range ids {
		delete(f.tickets, id)
	}
	return nil
}

func (f *fakeTicketStore) ClaimPayment(ctx context.Context, paymentID, orderID string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.claims[paymentID]; exists {
		return consts.ErrPaymentInProgress
	}
	f.claims[paymentID] = orderID
	return nil
}

func (f *fakeTicketStore) ReleasePaymentClaim(ctx context.Context, paymentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.claims, paymentID)
	return nil
}

func (f *fakeTicketStore) ClaimRefundProcessing(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.Status != consts.TicketStatusActive || !t.RefundRequested || t.RefundProcessing {
		return consts.ErrTicketStateConflict
	}
	t.RefundProcessing = true
	t.UpdatedAt = at
	return nil
}

func (f *fakeTicketStore) ReleaseRefundProcessing(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || !t.RefundProcessing {
		return consts.ErrTicketStateConflict
	}
	t.RefundProcessing = false
	t.UpdatedAt = at
	return nil
}

func (f *fakeTicketStore) MarkRefundRequested(ctx context.Context, id primitive.ObjectID, reason string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.Status != consts.TicketStatusActive || t.PaymentStatus != consts.PaymentStatusCompleted || t.RefundRequested {
		return consts.ErrTicketStateConflict
	}
	t.RefundRequested = true
	t.RefundRequestedAt = &at
	t.RefundReason = reason
	t.UpdatedAt = at
	return nil
}

func (f *fakeTicketStore) MarkRefunded(ctx context.Context, id primitive.ObjectID, amount int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.Status != consts.TicketStatusActive || !t.RefundRequested {
		return consts.ErrTicketStateConflict
	}
	t.Status = consts.TicketStatusRefunded
	t.PaymentStatus = consts.PaymentStatusRefunded
	t.RefundProcessing = false
	t.RefundedAt = &at
	t.RefundAmount = amount
	t.UpdatedAt = at
	return nil
}

func (f *fakeTicketStore) MarkUsed(ctx context.Context, id primitive.ObjectID, validatedBy string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.Status != consts.TicketStatusActive || t.PaymentStatus != consts.PaymentStatusCompleted || t.RefundProcessing {
		return consts.ErrTicketStateConflict
	}
	t.Status = consts.TicketStatusUsed
	t.ValidatedAt = &at
	t.ValidatedBy = validatedBy
	t.UpdatedAt = at
	return nil
}

func (f *fakeTicketStore) get(id primitive.ObjectID) *collections.Ticket {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tickets[id]; ok {
		copied := *t
		return &copied
	}
	return nil
}

func (f *fakeTicketStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets)
}

func (f *fakeTicketStore) put(t collections.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[t.ID] = &t
}

type fakeEventStore struct {
	events map[primitive.ObjectID]*collections.Event
}

func newFakeEventStore(events ...*collections.Event) *fakeEventStore {
	m := make(map[primitive.ObjectID]*collections.Event)
	for _, e := range events {
		m[e.ID] = e
	}
	return &fakeEventStore{events: m}
}

func (f *fakeEventStore) FindByID(ctx context.Context, id primitive.ObjectID) (*collections.Event, error) {
	if e, ok := f.events[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, consts.ErrEventNotFound
}

type fakeGateway struct {
	mu sync.Mutex

	orderErr  error
	refundErr error

	orders  []string
	refunds []string
}

func (f *fakeGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orderErr != nil {
		return "", f.orderErr
	}
	id := fmt.Sprintf("order_fake_%d", len(f.orders)+1)
	f.orders = append(f.orders, id)
	return id, nil
}

func (f *fakeGateway) Refund(ctx context.Context, paymentID string, amount int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.refundErr != nil {
		return "", f.refundErr
	}
	f.refunds = append(f.refunds, paymentID)
	return fmt.Sprintf("rfnd_fake_%d", len(f.refunds)), nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	sendErr error
	sent    [][]collections.Ticket
}

func (f *fakeNotifier) Send(ctx context.Context, tickets []collections.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tickets)
	return nil
}

var errBoom = errors.New("boom")

// newTestEvent dựng một sự kiện tương lai với một loại vé đang mở bán.
func newTestEvent(available int, price int64) (*collections.Event, *collections.TicketType) {
	eventID := primitive.NewObjectID()
	ticketTypeID := primitive.NewObjectID()
	event := &collections.Event{
		ID:            eventID,
		Name:          "Đêm nhạc mùa thu",
		OrganizerID:   primitive.NewObjectID(),
		OrganizerName: "Nhà hát lớn",
		EventDate:     time.Now().AddDate(0, 0, 30),
		Venue:         "Nhà hát lớn Hà Nội",
		Active:        true,
		TicketTypes: collections.TicketTypes{
			{
				ID:                ticketTypeID,
				Name:              "Standard",
				Price:             price,
				TotalQuantity:     available,
				SoldQuantity:      0,
				AvailableQuantity: available,
				Active:            true,
			},
		},
		Settings: collections.EventSettings{
			AllowRefunds:          true,
			RefundDaysBeforeEvent: 7,
		},
	}
	return event, &event.TicketTypes[0]
}
