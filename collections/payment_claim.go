package collections

import (
	"EventManagement/database"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// PaymentClaim đánh dấu một payment_id đã có callback nhận xử lý.
// Dùng chính _id của Mongo làm khóa duy nhất: InsertOne thứ hai với
// cùng payment_id sẽ dính duplicate key, nhờ đó hai callback chạy song
// song chỉ có một bên giành được quyền phát vé.
type PaymentClaim struct {
	PaymentID string    `bson:"_id" json:"payment_id"`
	OrderID   string    `bson:"order_id,omitempty" json:"order_id,omitempty"`
	ClaimedAt time.Time `bson:"claimed_at" json:"claimed_at"`
}

func (u *PaymentClaim) getCollectionName() string {
	return "payment_claims"
}

func (u *PaymentClaim) Create(ctx context.Context) error {
	var (
		db = database.GetDB()
	)
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	_, err := db.Collection(u.getCollectionName()).InsertOne(ctx, u)
	if err != nil {
		return err
	}
	return nil
}

func (u *PaymentClaim) Delete(ctx context.Context) error {
	var (
		db = database.GetDB()
	)
	if ctx == nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}

	_, err := db.Collection(u.getCollectionName()).DeleteOne(ctx, bson.M{"_id": u.PaymentID})
	if err != nil {
		return err
	}
	return nil
}
