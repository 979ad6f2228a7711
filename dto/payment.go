package dto

import "go.mongodb.org/mongo-driver/bson/primitive"

type CreateOrderRequest struct {
	EventID      primitive.ObjectID `json:"event_id" binding:"required"`
	TicketTypeID primitive.ObjectID `json:"ticket_type_id" binding:"required"`
	Quantity     int                `json:"quantity" binding:"required"`
	Currency     string             `json:"currency,omitempty"`
}

type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Key      string `json:"key"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id" binding:"required"`
	PaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature string `json:"razorpay_signature" binding:"required"`

	EventID       primitive.ObjectID `json:"event_id" binding:"required"`
	TicketTypeID  primitive.ObjectID `json:"ticket_type_id" binding:"required"`
	Quantity      int                `json:"quantity" binding:"required"`
	AttendeeName  string             `json:"attendee_name" binding:"required"`
	AttendeeEmail string             `json:"attendee_email" binding:"required,email"`
	AttendeePhone string             `json:"attendee_phone,omitempty"`
}
