package collections

import (
	"EventManagement/consts"
	"EventManagement/database"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Ticket là aggregate độc lập, chỉ tham chiếu Event/TicketType qua ID.
// Các field snapshot (event_name, event_date, venue, giá...) được chụp tại
// thời điểm mua và không thay đổi sau đó; chỉ status/payment/refund mutate.
type Ticket struct {
	ID primitive.ObjectID `json:"id" bson:"_id,omitempty"`

	// Unique index
	TicketNumber string `json:"ticket_number" bson:"ticket_number"`

	EventID    primitive.ObjectID `json:"event_id" bson:"event_id"`
	EventName  string             `json:"event_name" bson:"event_name"`
	EventDate  time.Time          `json:"event_date" bson:"event_date"`
	EventVenue string             `json:"event_venue" bson:"event_venue"`

	TicketTypeID   primitive.ObjectID `json:"ticket_type_id" bson:"ticket_type_id"`
	TicketTypeName string             `json:"ticket_type_name" bson:"ticket_type_name"`
	Price          int64              `json:"price" bson:"price"`

	AttendeeID    primitive.ObjectID `json:"attendee_id" bson:"attendee_id"`
	AttendeeName  string             `json:"attendee_name" bson:"attendee_name"`
	AttendeeEmail string             `json:"attendee_email" bson:"attendee_email"`
	AttendeePhone string             `json:"attendee_phone,omitempty" bson:"attendee_phone,omitempty"`

	// Chuỗi payload để encode thành mã QR (unique index)
	QRCodeData string `json:"qr_code_data" bson:"qr_code_data"`

	Status       consts.TicketStatus `json:"status" bson:"status"`
	PurchaseDate time.Time           `json:"purchase_date" bson:"purchase_date"`

	ValidatedAt *time.Time `json:"validated_at,omitempty" bson:"validated_at,omitempty"`
	ValidatedBy string     `json:"validated_by,omitempty" bson:"validated_by,omitempty"`

	PaymentID     string               `json:"payment_id,omitempty" bson:"payment_id,omitempty"`
	PaymentMethod string               `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	PaymentStatus consts.PaymentStatus `json:"payment_status" bson:"payment_status"`

	RefundRequested   bool       `json:"refund_requested" bson:"refund_requested"`
	RefundProcessing  bool       `json:"refund_processing,omitempty" bson:"refund_processing,omitempty"`
	RefundRequestedAt *time.Time `json:"refund_requested_at,omitempty" bson:"refund_requested_at,omitempty"`
	RefundedAt        *time.Time `json:"refunded_at,omitempty" bson:"refunded_at,omitempty"`
	RefundAmount      int64      `json:"refund_amount,omitempty" bson:"refund_amount,omitempty"`
	RefundReason      string     `json:"refund_reason,omitempty" bson:"refund_reason,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

type Tickets []Ticket

func (u *Ticket) getCollectionName() string {
	return "tickets"
}

// IsExpired: sự kiện đã diễn ra thì vé coi như hết hạn.
func (u *Ticket) IsExpired(now time.Time) bool {
	return !u.EventDate.IsZero() && u.EventDate.Before(now)
}

// IsValid: vé đủ điều kiện check-in.
func (u *Ticket) IsValid(now time.Time) bool {
	return u.Status == consts.TicketStatusActive &&
		u.PaymentStatus == consts.PaymentStatusCompleted &&
		!u.IsExpired(now)
}

// CanBeRefunded: vé active, đã thanh toán, và còn trước hạn chót hoàn tiền
// (event_date trừ đi refundDays ngày).
func (u *Ticket) CanBeRefunded(now time.Time, refundDays int) bool {
	deadline := u.EventDate.AddDate(0, 0, -refundDays)
	return u.Status == consts.TicketStatusActive &&
		u.PaymentStatus == consts.PaymentStatusCompleted &&
		now.Before(deadline)
}

func (u *Ticket) First(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) error {
	var (
		db = database.GetDB()
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	err := db.Collection(u.getCollectionName()).FindOne(ctx, filter, opts...).Decode(u)
	if err != nil {
		return err
	}
	return nil
}

func (u *Ticket) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) (Tickets, error) {
	var (
		db      = database.GetDB()
		tickets Tickets
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	if filter == nil {
		filter = bson.M{}
	}

	cursor, err := db.Collection(u.getCollectionName()).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &tickets); err != nil {
		return nil, err
	}

	if tickets == nil {
		tickets = []Ticket{}
	}

	return tickets, nil
}

func (u *Ticket) Count(ctx context.Context, filter bson.M) (int64, error) {
	var (
		db = database.GetDB()
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	if filter == nil {
		filter = bson.M{}
	}

	return db.Collection(u.getCollectionName()).CountDocuments(ctx, filter)
}

func (u *Ticket) Create(ctx context.Context) error {
	var (
		db  = database.GetDB()
		err error
	)
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	_, err = db.Collection(u.getCollectionName()).InsertOne(ctx, u)
	if err != nil {
		return err
	}
	return nil
}

func (u *Ticket) CreateMany(ctx context.Context, tickets []Ticket, opts ...*options.InsertManyOptions) error {
	var (
		db  = database.GetDB()
		err error
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	_, err = db.Collection(u.getCollectionName()).InsertMany(ctx, toTicketInterfaceSlice(tickets), opts...)
	if err != nil {
		return err
	}
	return nil
}

func (u *Ticket) DeleteMany(ctx context.Context, filter bson.M) error {
	var (
		db = database.GetDB()
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	_, err := db.Collection(u.getCollectionName()).DeleteMany(ctx, filter)
	if err != nil {
		return err
	}
	return nil
}

// Update với MatchedCount == 0 trả về mongo.ErrNoDocuments: caller dùng
// filter có điều kiện trạng thái để phát hiện bị thua race.
func (u *Ticket) Update(ctx context.Context, filter bson.M, updateDoc bson.M, opts ...*options.UpdateOptions) error {
	var (
		db = database.GetDB()
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	if filter == nil {
		filter = bson.M{}
	}

	res, err := db.Collection(u.getCollectionName()).UpdateOne(ctx, filter, updateDoc, opts...)
	if err != nil {
		return err
	}

	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}

	return nil
}

func toTicketInterfaceSlice(tickets []Ticket) []interface{} {
	var result []interface{}
	for _, ticket := range tickets {
		result = append(result, ticket)
	}
	return result
}
