package utils

import (
	"EventManagement/consts"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ticket
func BuildTicketSearchFilter(params map[string][]string) bson.M {
	filter := bson.M{}
	andConditions := []bson.M{}

	// Tìm theo keyword trên số vé, tên và email người tham dự
	if keywords, ok := params["keyword"]; ok && len(keywords) > 0 && keywords[0] != "" {
		keyword := regexp.QuoteMeta(strings.TrimSpace(keywords[0]))
		or := []bson.M{
			{"ticket_number": bson.M{"$regex": keyword, "$options": "i"}},
			{"attendee_name": bson.M{"$regex": keyword, "$options": "i"}},
			{"attendee_email": bson.M{"$regex": keyword, "$options": "i"}},
		}
		andConditions = append(andConditions, bson.M{"$or": or})
	}

	// status
	if statuses, ok := params["status"]; ok && len(statuses) > 0 && statuses[0] != "" {
		andConditions = append(andConditions, bson.M{"status": bson.M{"$in": statuses}})
	}

	// event_id
	if eventIds, ok := params["event_id"]; ok && len(eventIds) > 0 && eventIds[0] != "" {
		if id, err := primitive.ObjectIDFromHex(eventIds[0]); err == nil {
			andConditions = append(andConditions, bson.M{"event_id": id})
		}
	}

	// ticket_type_id
	if typeIds, ok := params["ticket_type_id"]; ok && len(typeIds) > 0 && typeIds[0] != "" {
		if id, err := primitive.ObjectIDFromHex(typeIds[0]); err == nil {
			andConditions = append(andConditions, bson.M{"ticket_type_id": id})
		}
	}

	// refund_requested
	if v, ok := params["refund_requested"]; ok && len(v) > 0 && v[0] == "true" {
		andConditions = append(andConditions, bson.M{"refund_requested": true})
	}

	// expired: vé còn active nhưng sự kiện đã diễn ra
	if v, ok := params["expired"]; ok && len(v) > 0 && v[0] == "true" {
		andConditions = append(andConditions,
			bson.M{"status": consts.TicketStatusActive},
			bson.M{"event_date": bson.M{"$lt": time.Now()}},
		)
	}

	// purchase_date theo khoảng ngày
	fromList, hasFrom := params["purchase_date_from"]
	toList, hasTo := params["purchase_date_to"]
	if hasFrom || hasTo {
		rangeCond := bson.M{}
		if hasFrom && len(fromList) > 0 && fromList[0] != "" {
			t, _ := time.Parse("2006-01-02", fromList[0])
			rangeCond["$gte"] = t
		}
		if hasTo && len(toList) > 0 && toList[0] != "" {
			t, _ := time.Parse("2006-01-02", toList[0])
			rangeCond["$lte"] = t
		}
		andConditions = append(andConditions, bson.M{"purchase_date": rangeCond})
	}

	if len(andConditions) > 0 {
		filter["$and"] = andConditions
	}

	return filter
}

// Build filter sort
func BuildSortFilter(params map[string][]string) bson.D {
	sorts := bson.D{}

	//?sorts=purchase_date_desc,price_asc
	if v, ok := params["sorts"]; ok && len(v) > 0 {
		for _, sortField := range v {
			lastIndex := strings.LastIndex(sortField, "_")
			var (
				field string
				order string
			)
			if lastIndex == -1 {
				field = sortField
				order = "asc"
			} else {
				field = sortField[:lastIndex]
				order = sortField[lastIndex+1:]
			}
			value := 1
			if strings.ToLower(order) == "desc" {
				value = -1
			}

			sorts = append(sorts, bson.E{Key: field, Value: value})
		}
	}

	if len(sorts) == 0 {
		sorts = bson.D{{Key: "created_at", Value: -1}}
	}

	return sorts
}
