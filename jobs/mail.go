package jobs

import (
	"EventManagement/collections"
	"EventManagement/configs"
	"EventManagement/consts"
	"EventManagement/database"
	"EventManagement/utils"
	"EventManagement/view"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailJob struct {
	Type       string `json:"type"`
	Data       bson.M `json:"data"`
	RetryCount int    `json:"retry_count"`
}

// QueueNotifier đẩy job gửi mail vé vào redis thay vì gửi đồng bộ,
// luồng thanh toán không phải chờ SMTP.
type QueueNotifier struct{}

func NewQueueNotifier() *QueueNotifier { return &QueueNotifier{} }

func (n *QueueNotifier) Send(ctx context.Context, tickets []collections.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}

	ticketIDs := make([]string, 0, len(tickets))
	for _, t := range tickets {
		ticketIDs = append(ticketIDs, t.ID.Hex())
	}

	job := EmailJob{
		Type: consts.JobTypeTicketEmail,
		Data: bson.M{"ticket_ids": ticketIDs},
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return database.GetRedisClient().Client.RPush(ctx, consts.QueueNameEmail, payload).Err()
}

func StartEmailQueue() {
	rdb := database.GetRedisClient().Client
	log.Printf("WORKER STARTED: Đang lắng nghe queue '%s'...", consts.QueueNameEmail)

	for {
		result, err := rdb.BLPop(context.Background(), 0, consts.QueueNameEmail).Result()
		if err != nil {
			log.Printf("ERROR: Kết nối redis lỗi: %v. Retry in 5s...", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// Parse Job
		jobPayload := []byte(result[1])
		var job EmailJob
		if err := json.Unmarshal(jobPayload, &job); err != nil {
			log.Printf("ERROR: JSON unmarshal -> BỎ QUA JOB: %v", err)
			continue
		}

		log.Printf("WORKER: Nhận job [%s] (Retry: %d)", job.Type, job.RetryCount)

		processSingleJob(job)
	}
}

func processSingleJob(job EmailJob) {
	var err error

	switch job.Type {
	case consts.JobTypeTicketEmail:
		rawIDs, ok := job.Data["ticket_ids"].(primitive.A)
		if !ok {
			// json.Unmarshal vào bson.M cho ra []interface{} chứ không phải primitive.A
			rawList, okList := job.Data["ticket_ids"].([]interface{})
			if !okList {
				log.Printf("ERROR: Dữ liệu job thiếu 'ticket_ids' -> BỎ QUA")
				return
			}
			rawIDs = rawList
		}

		ticketIDs := make([]primitive.ObjectID, 0, len(rawIDs))
		for _, raw := range rawIDs {
			idStr, okStr := raw.(string)
			if !okStr {
				continue
			}
			id, parseErr := primitive.ObjectIDFromHex(idStr)
			if parseErr != nil {
				log.Printf("ERROR: ID không hợp lệ: %s -> BỎ QUA", idStr)
				return
			}
			ticketIDs = append(ticketIDs, id)
		}
		if len(ticketIDs) == 0 {
			log.Printf("ERROR: Job không có ticket_ids hợp lệ -> BỎ QUA")
			return
		}

		err = sendTicketEmail(ticketIDs)

	default:
		log.Printf("WARN: Không biết loại job '%s' -> BỎ QUA", job.Type)
		return
	}

	// Xử lý kết quả
	if err != nil {
		log.Printf("FAIL: Job thất bại: %v", err)

		//Kiểm tra các lỗi cần retry
		if errors.Is(err, consts.ErrFatalDataNotFound) || errors.Is(err, consts.ErrFatalInvalidData) {
			log.Printf("DROP: Lỗi dữ liệu không thể cứu vãn -> Hủy Job.")
			return
		}

		// Nếu là lỗi thường
		if job.RetryCount < configs.GetMaxRetries() {
			job.RetryCount++
			log.Printf("RETRY: Đẩy lại vào queue (Lần %d/%d)", job.RetryCount, configs.GetMaxRetries())
			pushBackToQueue(job)
		} else {
			log.Printf("DROP: Đã thử %d lần vẫn lỗi -> Hủy Job để tránh kẹt queue.", configs.GetMaxRetries())
		}
	} else {
		log.Printf("DONE: Xử lý xong job %s", job.Type)
	}
}

// sendTicketEmail đọc lại lô vé từ DB, dựng mail kèm QR và gửi cho
// người mua. Vé không còn trong DB là lỗi dữ liệu, không retry.
func sendTicketEmail(ticketIDs []primitive.ObjectID) error {
	var ticketEntry collections.Ticket
	tickets, err := ticketEntry.Find(context.Background(), bson.M{"_id": bson.M{"$in": ticketIDs}})
	if err != nil {
		return fmt.Errorf("lỗi đọc vé từ DB: %w", err)
	}
	if len(tickets) == 0 {
		return fmt.Errorf("%w: không tìm thấy vé nào trong lô", consts.ErrFatalDataNotFound)
	}

	subject, htmlBody, embeddedImages, err := view.BuildTicketEmail(tickets)
	if err != nil {
		return fmt.Errorf("%w: %v", consts.ErrFatalInvalidData, err)
	}

	emailService := utils.NewEmailService()
	return emailService.SendEmail(utils.EmailPayload{
		To:             []string{tickets[0].AttendeeEmail},
		Subject:        subject,
		HTMLBody:       htmlBody,
		EmbeddedImages: embeddedImages,
	})
}

func pushBackToQueue(job EmailJob) {
	payload, _ := json.Marshal(job)
	database.GetRedisClient().Client.RPush(context.Background(), consts.QueueNameEmail, payload)
}
