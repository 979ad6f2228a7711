package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendee là người đứng tên trên vé, không nhất thiết là người đăng nhập.
type Attendee struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Phone string
}

// TicketIssuer dựng document vé hoàn chỉnh từ snapshot event + loại vé.
// Issuer chỉ dựng trong bộ nhớ, việc ghi xuống DB thuộc về orchestrator.
type TicketIssuer struct{}

// NewTicketNumber sinh mã vé dạng TKT-<mili giây>-<8 ký tự UUID in hoa>.
// Thành phần thời gian giúp đọc log dễ, thành phần ngẫu nhiên chống trùng
// khi phát hành nhiều vé trong cùng một mili giây.
func (TicketIssuer) NewTicketNumber(now time.Time) string {
	random := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TKT-%d-%s", now.UnixMilli(), random)
}

// QRPayload là chuỗi nhúng trong mã QR của vé, gồm ba trường phân tách
// bằng "|" để cổng soát vé đối chiếu được cả ba chiều.
func (TicketIssuer) QRPayload(ticketNumber string, eventID, attendeeID primitive.ObjectID) string {
	return fmt.Sprintf("%s|%s|%s", ticketNumber, eventID.Hex(), attendeeID.Hex())
}

// Issue dựng một vé mới ở trạng thái active, đóng băng tên sự kiện, ngày
// giờ, địa điểm và giá tại thời điểm mua để vé không đổi khi organizer
// sửa sự kiện về sau.
func (i TicketIssuer) Issue(eventEntry *collections.Event, ticketType *collections.TicketType, attendee Attendee, paymentMethod string, paymentStatus consts.PaymentStatus, now time.Time) collections.Ticket {
	ticketNumber := i.NewTicketNumber(now)
	return collections.Ticket{
		ID:             primitive.NewObjectID(),
		TicketNumber:   ticketNumber,
		EventID:        eventEntry.ID,
		EventName:      eventEntry.Name,
		EventDate:      eventEntry.EventDate,
		EventVenue:     eventEntry.Venue,
		TicketTypeID:   ticketType.ID,
		TicketTypeName: ticketType.Name,
		Price:          ticketType.Price,
		AttendeeID:     attendee.ID,
		AttendeeName:   attendee.Name,
		AttendeeEmail:  attendee.Email,
		AttendeePhone:  attendee.Phone,
		QRCodeData:     i.QRPayload(ticketNumber, eventEntry.ID, attendee.ID),
		Status:         consts.TicketStatusActive,
		PurchaseDate:   now,
		PaymentMethod:  paymentMethod,
		PaymentStatus:  paymentStatus,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
