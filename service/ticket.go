package service

import (
	"EventManagement/collections"
	"EventManagement/consts"
	"context"
	"strings"
	"time"
)

// CheckInService soát vé tại cổng. Vé hợp lệ bị đóng dấu used ngay bằng
// conditional update nên hai cổng quét cùng một vé chỉ có một cổng thắng.
type CheckInService struct {
	Tickets TicketStore
	Now     func() time.Time
}

func NewCheckInService(tickets TicketStore) *CheckInService {
	return &CheckInService{Tickets: tickets, Now: time.Now}
}

// ticketNumberFromQR tách mã vé khỏi payload QR "<số vé>|<event>|<người mua>".
func ticketNumberFromQR(payload string) string {
	if idx := strings.Index(payload, "|"); idx > 0 {
		return payload[:idx]
	}
	return payload
}

// Validate nhận mã vé hoặc payload QR, kiểm tra vé còn dùng được rồi
// đóng dấu used kèm danh tính người soát.
func (s *CheckInService) Validate(ctx context.Context, ticketNumber, qrPayload, validatedBy string) (*collections.Ticket, error) {
	if ticketNumber == "" {
		ticketNumber = ticketNumberFromQR(qrPayload)
	}
	if ticketNumber == "" {
		return nil, consts.ErrTicketNotFound
	}

	ticketEntry, err := s.Tickets.FindByTicketNumber(ctx, ticketNumber)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	if !ticketEntry.IsValid(now) {
		return nil, consts.ErrTicketStateConflict
	}

	if err := s.Tickets.MarkUsed(ctx, ticketEntry.ID, validatedBy, now); err != nil {
		return nil, err
	}

	ticketEntry.Status = consts.TicketStatusUsed
	ticketEntry.ValidatedAt = &now
	ticketEntry.ValidatedBy = validatedBy
	return ticketEntry, nil
}
