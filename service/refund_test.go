package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type refundFixture struct {
	orch   *RefundOrchestrator
	ledger *fakeLedger
	store  *fakeTicketStore
	gw     *fakeGateway
	event  *collections.Event
	ticket collections.Ticket
}

// newRefundFixture dựng sẵn một vé đã bán (kho đã trừ 1) cho sự kiện
// còn 30 ngày nữa mới diễn ra.
func newRefundFixture(t *testing.T) *refundFixture {
	t.Helper()

	event, tt := newTestEvent(10, 50000)
	ledger := newFakeLedger(event)
	store := newFakeTicketStore()
	events := newFakeEventStore(event)
	gw := &fakeGateway{}

	_, _, err := ledger.Reserve(context.Background(), event.ID, tt.ID, 1)
	require.NoError(t, err)

	var issuer TicketIssuer
	attendee := testAttendee()
	ticket := issuer.Issue(event, tt, attendee, "razorpay", consts.PaymentStatusCompleted, time.Now())
	ticket.PaymentID = "pay_1"
	store.put(ticket)

	orch := NewRefundOrchestrator(store, events, ledger, gw, 7)
	return &refundFixture{orch: orch, ledger: ledger, store: store, gw: gw, event: event, ticket: ticket}
}

func TestRequestRefundThanhCong(t *testing.T) {
	f := newRefundFixture(t)

	updated, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "bận việc đột xuất")
	require.NoError(t, err)

	assert.True(t, updated.RefundRequested)
	assert.NotNil(t, updated.RefundRequestedAt)

	stored := f.store.get(f.ticket.ID)
	assert.True(t, stored.RefundRequested)
	assert.Equal(t, "bận việc đột xuất", stored.RefundReason)
	// Chưa duyệt thì vé vẫn active, kho chưa hoàn
	assert.Equal(t, consts.TicketStatusActive, stored.Status)
	assert.Equal(t, 1, f.ledger.sold(f.ticket.TicketTypeID))
}

func TestRequestRefundKhongPhaiChuVe(t *testing.T) {
	f := newRefundFixture(t)

	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, primitive.NewObjectID(), "thử gian lận")
	assert.ErrorIs(t, err, consts.ErrUnauthorizedActor)
	assert.False(t, f.store.get(f.ticket.ID).RefundRequested)
}

func TestRequestRefundSuKienKhongChoHoan(t *testing.T) {
	f := newRefundFixture(t)
	f.event.Settings.AllowRefunds = false

	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "đổi ý")
	assert.ErrorIs(t, err, consts.ErrRefundNotAllowed)
}

func TestRequestRefundQuaHanChot(t *testing.T) {
	f := newRefundFixture(t)
	// Sự kiện còn 3 ngày, hạn chót là 7 ngày trước sự kiện
	f.orch.Now = func() time.Time { return f.ticket.EventDate.AddDate(0, 0, -3) }

	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "muộn quá")
	assert.ErrorIs(t, err, consts.ErrTicketNotRefundable)
}

func TestRequestRefundHaiLan(t *testing.T) {
	f := newRefundFixture(t)

	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "lần một")
	require.NoError(t, err)

	_, err = f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "lần hai")
	assert.ErrorIs(t, err, consts.ErrRefundAlreadyRequested)
}

func TestProcessRefundThanhCong(t *testing.T) {
	f := newRefundFixture(t)
	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "bận việc")
	require.NoError(t, err)

	updated, err := f.orch.ProcessRefund(context.Background(), f.ticket.ID, f.event.OrganizerID)
	require.NoError(t, err)

	assert.Equal(t, consts.TicketStatusRefunded, updated.Status)
	assert.Equal(t, consts.PaymentStatusRefunded, updated.PaymentStatus)
	assert.Equal(t, f.ticket.Price, updated.RefundAmount)

	stored := f.store.get(f.ticket.ID)
	assert.Equal(t, consts.TicketStatusRefunded, stored.Status)

	// Gateway được gọi đúng một lần cho đúng giao dịch, kho hoàn đúng 1
	require.Len(t, f.gw.refunds, 1)
	assert.Equal(t, "pay_1", f.gw.refunds[0])
	assert.Equal(t, 0, f.ledger.sold(f.ticket.TicketTypeID))
	assert.Equal(t, 10, f.ledger.available(f.ticket.TicketTypeID))
}

func TestProcessRefundChuaCoYeuCau(t *testing.T) {
	f := newRefundFixture(t)

	_, err := f.orch.ProcessRefund(context.Background(), f.ticket.ID, f.event.OrganizerID)
	assert.ErrorIs(t, err, consts.ErrRefundNotRequested)
	assert.Empty(t, f.gw.refunds)
}

func TestProcessRefundKhongPhaiOrganizer(t *testing.T) {
	f := newRefundFixture(t)
	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "bận việc")
	require.NoError(t, err)

	_, err = f.orch.ProcessRefund(context.Background(), f.ticket.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, consts.ErrUnauthorizedActor)
	assert.Empty(t, f.gw.refunds)
}

func TestProcessRefundGatewayLoiGiuNguyenTrangThai(t *testing.T) {
	f := newRefundFixture(t)
	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "bận việc")
	require.NoError(t, err)
	f.gw.refundErr = errBoom

	_, err = f.orch.ProcessRefund(context.Background(), f.ticket.ID, f.event.OrganizerID)
	assert.ErrorIs(t, err, consts.ErrGatewayFailure)

	// Gateway lỗi thì vé vẫn active, kho chưa hoàn, thử lại được
	stored := f.store.get(f.ticket.ID)
	assert.Equal(t, consts.TicketStatusActive, stored.Status)
	assert.True(t, stored.RefundRequested)
	assert.False(t, stored.RefundProcessing)
	assert.Equal(t, 1, f.ledger.sold(f.ticket.TicketTypeID))

	// Thử lại sau khi gateway hồi phục
	f.gw.refundErr = nil
	_, err = f.orch.ProcessRefund(context.Background(), f.ticket.ID, f.event.OrganizerID)
	require.NoError(t, err)
	assert.Equal(t, consts.TicketStatusRefunded, f.store.get(f.ticket.ID).Status)
}

func TestSoatVeVaHoanTienTranhNhau(t *testing.T) {
	f := newRefundFixture(t)
	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "bận việc")
	require.NoError(t, err)

	checkIn := NewCheckInService(f.store)

	var (
		wg         sync.WaitGroup
		refundErr  error
		checkInErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, refundErr = f.orch.ProcessRefund(context.Background(), f.ticket.ID, f.event.OrganizerID)
	}()
	go func() {
		defer wg.Done()
		_, checkInErr = checkIn.Validate(context.Background(), f.ticket.TicketNumber, "", "gate_1")
	}()
	wg.Wait()

	// Đúng một bên thắng, vé kết thúc ở used hoặc refunded
	stored := f.store.get(f.ticket.ID)
	if refundErr == nil {
		assert.Error(t, checkInErr)
		assert.Equal(t, consts.TicketStatusRefunded, stored.Status)
	} else {
		require.NoError(t, checkInErr)
		assert.Equal(t, consts.TicketStatusUsed, stored.Status)
	}
}

func TestProcessRefundHaiLuotDuyetCungLuc(t *testing.T) {
	f := newRefundFixture(t)
	_, err := f.orch.RequestRefund(context.Background(), f.ticket.ID, f.ticket.AttendeeID, "bận việc")
	require.NoError(t, err)

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.orch.ProcessRefund(context.Background(), f.ticket.ID, f.event.OrganizerID)
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, consts.ErrTicketStateConflict)
			}
		}()
	}
	wg.Wait()

	// Vé bị khóa trước khi gọi gateway nên dù hai lượt duyệt chạy song
	// song, gateway chỉ bị yêu cầu hoàn tiền đúng một lần
	assert.Equal(t, 1, successes)
	assert.Len(t, f.gw.refunds, 1)
	assert.Equal(t, consts.TicketStatusRefunded, f.store.get(f.ticket.ID).Status)
	assert.Equal(t, 0, f.ledger.sold(f.ticket.TicketTypeID))
}
