package controllers

import (
	"EventManagement/collections"
	"EventManagement/dto"
	"EventManagement/service"
	"EventManagement/utils"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PurchaseTicket phát hành vé miễn phí trực tiếp, không qua cổng thanh
// toán. Loại vé có giá sẽ bị từ chối, client phải đi luồng tạo order.
func PurchaseTicket(c *gin.Context, orchestrator *service.PurchaseOrchestrator) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	var req dto.TicketPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	if errs := utils.ValidateTicketPurchaseReq(req); len(errs) > 0 {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", errs)
		return
	}

	tickets, err := orchestrator.PurchaseFree(c.Request.Context(), service.PurchaseInput{
		EventID:      req.EventID,
		TicketTypeID: req.TicketTypeID,
		Quantity:     req.Quantity,
		Attendee: service.Attendee{
			ID:    accountID,
			Name:  req.AttendeeName,
			Email: req.AttendeeEmail,
			Phone: req.AttendeePhone,
		},
	})
	if err != nil {
		status, msg := paymentErrorStatus(err)
		utils.ResponseError(c, status, msg, err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Đăng ký vé thành công.", tickets, nil)
}

// GetTicket trả chi tiết một vé. Chỉ chủ vé hoặc organizer của sự kiện
// được xem.
func GetTicket(c *gin.Context) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	ticketID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	var ticketEntry collections.Ticket
	if err := ticketEntry.First(c.Request.Context(), bson.M{"_id": ticketID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusNotFound, "Không tìm thấy vé!", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	if ticketEntry.AttendeeID != accountID {
		var eventEntry collections.Event
		if err := eventEntry.FindByID(c.Request.Context(), ticketEntry.EventID); err != nil || eventEntry.OrganizerID != accountID {
			utils.ResponseError(c, http.StatusForbidden, "Không có quyền xem vé này!", nil)
			return
		}
	}

	utils.ResponseSuccess(c, http.StatusOK, "", ticketEntry, nil)
}

// GetTicketByNumber tra cứu vé theo mã vé, cùng quyền xem với GetTicket.
func GetTicketByNumber(c *gin.Context) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	ticketNumber := c.Param("ticketNumber")
	if ticketNumber == "" {
		utils.ResponseError(c, http.StatusBadRequest, "Thiếu mã vé!", nil)
		return
	}

	var ticketEntry collections.Ticket
	if err := ticketEntry.First(c.Request.Context(), bson.M{"ticket_number": ticketNumber}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusNotFound, "Không tìm thấy vé!", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	if ticketEntry.AttendeeID != accountID {
		var eventEntry collections.Event
		if err := eventEntry.FindByID(c.Request.Context(), ticketEntry.EventID); err != nil || eventEntry.OrganizerID != accountID {
			utils.ResponseError(c, http.StatusForbidden, "Không có quyền xem vé này!", nil)
			return
		}
	}

	utils.ResponseSuccess(c, http.StatusOK, "", ticketEntry, nil)
}

// GetMyTickets trả danh sách vé của người đang đăng nhập, có phân trang.
func GetMyTickets(c *gin.Context) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := utils.BuildTicketSearchFilter(c.Request.URL.Query())
	filter["attendee_id"] = accountID

	var ticketEntry collections.Ticket
	total, err := ticketEntry.Count(c.Request.Context(), filter)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	findOptions := options.Find().
		SetSort(utils.BuildSortFilter(c.Request.URL.Query())).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	tickets, err := ticketEntry.Find(c.Request.Context(), filter, findOptions)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	totalPage := int(total) / limit
	if int(total)%limit != 0 {
		totalPage++
	}

	utils.ResponseSuccess(c, http.StatusOK, "", tickets, &dto.Pagination{
		Page:      page,
		Limit:     limit,
		Total:     total,
		TotalPage: totalPage,
	})
}

// FindEventTickets liệt kê vé của một sự kiện cho organizer, lọc được
// theo trạng thái, loại vé, khoảng ngày mua.
func FindEventTickets(c *gin.Context) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	eventID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	var eventEntry collections.Event
	if err := eventEntry.FindByID(c.Request.Context(), eventID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusNotFound, "Không tìm thấy sự kiện!", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}
	if eventEntry.OrganizerID != accountID {
		utils.ResponseError(c, http.StatusForbidden, "Chỉ organizer của sự kiện được xem danh sách vé!", nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 20
	}

	filter := utils.BuildTicketSearchFilter(c.Request.URL.Query())
	filter["event_id"] = eventID

	var ticketEntry collections.Ticket
	total, err := ticketEntry.Count(c.Request.Context(), filter)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	findOptions := options.Find().
		SetSort(utils.BuildSortFilter(c.Request.URL.Query())).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	tickets, err := ticketEntry.Find(c.Request.Context(), filter, findOptions)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	totalPage := int(total) / limit
	if int(total)%limit != 0 {
		totalPage++
	}

	utils.ResponseSuccess(c, http.StatusOK, "", tickets, &dto.Pagination{
		Page:      page,
		Limit:     limit,
		Total:     total,
		TotalPage: totalPage,
	})
}

// GetTicketQR trả ảnh PNG mã QR của vé cho chính chủ vé.
func GetTicketQR(c *gin.Context) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	ticketID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	var ticketEntry collections.Ticket
	if err := ticketEntry.First(c.Request.Context(), bson.M{"_id": ticketID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			utils.ResponseError(c, http.StatusNotFound, "Không tìm thấy vé!", nil)
			return
		}
		utils.ResponseError(c, http.StatusInternalServerError, "", err.Error())
		return
	}

	if ticketEntry.AttendeeID != accountID {
		utils.ResponseError(c, http.StatusForbidden, "Không có quyền xem mã QR của vé này!", nil)
		return
	}

	png, err := utils.GenerateTicketQR(ticketEntry.QRCodeData)
	if err != nil {
		utils.ResponseError(c, http.StatusInternalServerError, "Lỗi tạo mã QR!", err.Error())
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// ValidateTicket soát vé tại cổng check-in, nhận mã vé hoặc payload QR.
func ValidateTicket(c *gin.Context, checkIn *service.CheckInService) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	var req dto.ValidateTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	if errs := utils.ValidateTicketReq(req); len(errs) > 0 {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", errs)
		return
	}

	ticketEntry, err := checkIn.Validate(c.Request.Context(), req.TicketNumber, req.QRCodeData, accountID.Hex())
	if err != nil {
		status, msg := paymentErrorStatus(err)
		utils.ResponseError(c, status, msg, err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Soát vé thành công.", ticketEntry, nil)
}

// RequestRefund cho chủ vé gửi yêu cầu hoàn tiền.
func RequestRefund(c *gin.Context, orchestrator *service.RefundOrchestrator) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	ticketID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	var req dto.RefundTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	if errs := utils.ValidateRefundTicketReq(req); len(errs) > 0 {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", errs)
		return
	}

	ticketEntry, err := orchestrator.RequestRefund(c.Request.Context(), ticketID, accountID, req.Reason)
	if err != nil {
		status, msg := paymentErrorStatus(err)
		utils.ResponseError(c, status, msg, err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Đã ghi nhận yêu cầu hoàn tiền.", ticketEntry, nil)
}

// ProcessRefund cho organizer duyệt yêu cầu hoàn tiền: gọi gateway hoàn
// tiền, chuyển vé sang refunded và hoàn kho.
func ProcessRefund(c *gin.Context, orchestrator *service.RefundOrchestrator) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	ticketID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "ID không đúng định dạng ObjectID!", err.Error())
		return
	}

	ticketEntry, err := orchestrator.ProcessRefund(c.Request.Context(), ticketID, accountID)
	if err != nil {
		log.Printf("WARN: Duyệt hoàn tiền vé %s thất bại: %v", ticketID.Hex(), err)
		status, msg := paymentErrorStatus(err)
		utils.ResponseError(c, status, msg, err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Hoàn tiền thành công.", ticketEntry, nil)
}
