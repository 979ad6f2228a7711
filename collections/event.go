package collections

import (
	"EventManagement/database"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventSettings struct {
	AllowRefunds          bool `bson:"allow_refunds" json:"allow_refunds"`
	RefundDaysBeforeEvent int  `bson:"refund_days_before_event" json:"refund_days_before_event"`
	RequirePhoneNumber    bool `bson:"require_phone_number" json:"require_phone_number"`
}

type Event struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	OrganizerID   primitive.ObjectID `bson:"organizer_id" json:"organizer_id"`
	OrganizerName string             `bson:"organizer_name" json:"organizer_name"`

	EventDate time.Time `bson:"event_date" json:"event_date"`
	EndDate   time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`

	Venue   string `bson:"venue" json:"venue"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`

	Active bool `bson:"active" json:"active"`

	// Loại vé nhúng trực tiếp trong document sự kiện
	TicketTypes TicketTypes `bson:"ticket_types" json:"ticket_types"`

	Settings EventSettings `bson:"settings" json:"settings"`

	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	CreatedBy primitive.ObjectID `bson:"created_by" json:"created_by"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
	UpdatedBy primitive.ObjectID `bson:"updated_by" json:"updated_by"`
	DeletedAt time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

type Events []Event

func (u *Event) getCollectionName() string {
	return "events"
}

// TicketTypeByID tìm loại vé trong mảng nhúng. Trả về nil nếu không có.
func (u *Event) TicketTypeByID(ticketTypeID primitive.ObjectID) *TicketType {
	for i := range u.TicketTypes {
		if u.TicketTypes[i].ID == ticketTypeID {
			return &u.TicketTypes[i]
		}
	}
	return nil
}

func (u *Event) Create(ctx context.Context) error {
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

func (u *Event) First(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) error {
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

func (u *Event) FindByID(ctx context.Context, id primitive.ObjectID) error {
	filter := bson.M{
		"_id":        id,
		"deleted_at": bson.M{"$exists": false},
	}
	return u.First(ctx, filter)
}

func (u *Event) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) (Events, error) {
	var (
		db     = database.GetDB()
		events Events
	)

	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	if filter == nil {
		filter = bson.M{}
	}
	filter["deleted_at"] = bson.M{"$exists": false}

	cursor, err := db.Collection(u.getCollectionName()).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}

	if events == nil {
		events = []Event{}
	}

	return events, nil
}

func (u *Event) Update(ctx context.Context, filter bson.M, updateDoc bson.M, opts ...*options.UpdateOptions) error {
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

// ReserveTicketType trừ kho bằng một conditional update duy nhất:
// chỉ match khi loại vé còn active và available_quantity >= quantity,
// sau đó $inc cả hai counter trong cùng một lệnh. Không match -> ErrNoDocuments.
func (u *Event) ReserveTicketType(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int, now time.Time) error {
	filter := bson.M{
		"_id":        eventID,
		"deleted_at": bson.M{"$exists": false},
		"ticket_types": bson.M{
			"$elemMatch": bson.M{
				"_id":                ticketTypeID,
				"active":             true,
				"available_quantity": bson.M{"$gte": quantity},
			},
		},
	}
	updateDoc := bson.M{
		"$inc": bson.M{
			"ticket_types.$.available_quantity": -quantity,
			"ticket_types.$.sold_quantity":      quantity,
		},
		"$set": bson.M{"updated_at": now},
	}
	return u.Update(ctx, filter, updateDoc)
}

// ReleaseTicketType là nghịch đảo của ReserveTicketType. Điều kiện
// sold_quantity >= quantity chặn việc hoàn kho chưa từng được trừ:
// available_quantity không bao giờ vượt total_quantity.
func (u *Event) ReleaseTicketType(ctx context.Context, eventID, ticketTypeID primitive.ObjectID, quantity int, now time.Time) error {
	filter := bson.M{
		"_id":        eventID,
		"deleted_at": bson.M{"$exists": false},
		"ticket_types": bson.M{
			"$elemMatch": bson.M{
				"_id":           ticketTypeID,
				"sold_quantity": bson.M{"$gte": quantity},
			},
		},
	}
	updateDoc := bson.M{
		"$inc": bson.M{
			"ticket_types.$.available_quantity": quantity,
			"ticket_types.$.sold_quantity":      -quantity,
		},
		"$set": bson.M{"updated_at": now},
	}
	return u.Update(ctx, filter, updateDoc)
}
