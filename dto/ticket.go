package dto

import "go.mongodb.org/mongo-driver/bson/primitive"

type TicketPurchaseRequest struct {
	EventID       primitive.ObjectID `json:"event_id" binding:"required"`
	TicketTypeID  primitive.ObjectID `json:"ticket_type_id" binding:"required"`
	Quantity      int                `json:"quantity" binding:"required"`
	AttendeeName  string             `json:"attendee_name" binding:"required"`
	AttendeeEmail string             `json:"attendee_email" binding:"required,email"`
	AttendeePhone string             `json:"attendee_phone,omitempty"`
	PaymentMethod string             `json:"payment_method,omitempty"`
}

type ValidateTicketRequest struct {
	TicketNumber string `json:"ticket_number,omitempty"`
	QRCodeData   string `json:"qr_code_data,omitempty"`
}

type RefundTicketRequest struct {
	Reason string `json:"reason" binding:"required"`
}
