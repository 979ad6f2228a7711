package controllers

import (
	"EventManagement/configs"
	"EventManagement/consts"
	"EventManagement/dto"
	"EventManagement/service"
	"EventManagement/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateOrder tạo order thanh toán trên Razorpay cho một lượt mua vé.
// Số tiền do server tự tính từ đơn giá trong DB.
func CreateOrder(c *gin.Context, orchestrator *service.PurchaseOrchestrator) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	if errs := utils.ValidateCreateOrderReq(req); len(errs) > 0 {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", errs)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = "INR"
	}

	order, err := orchestrator.CreateOrder(c.Request.Context(), req.EventID, req.TicketTypeID, req.Quantity, currency)
	if err != nil {
		status, msg := paymentErrorStatus(err)
		utils.ResponseError(c, status, msg, err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Tạo order thanh toán thành công.", dto.CreateOrderResponse{
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Key:      configs.GetRazorpayKeyID(),
	}, nil)
}

// VerifyPayment nhận callback từ client sau khi thanh toán xong: xác
// thực chữ ký, trừ kho, phát hành vé và đẩy job gửi mail.
func VerifyPayment(c *gin.Context, orchestrator *service.PurchaseOrchestrator) {
	accountID, ok := utils.GetAccountID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", utils.HandlerValidation(err))
		return
	}

	if errs := utils.ValidateVerifyPaymentReq(req); len(errs) > 0 {
		utils.ResponseError(c, http.StatusBadRequest, "Dữ liệu gửi lên không hợp lệ!", errs)
		return
	}

	tickets, err := orchestrator.VerifyAndSettle(c.Request.Context(), service.SettleInput{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		Purchase: service.PurchaseInput{
			EventID:      req.EventID,
			TicketTypeID: req.TicketTypeID,
			Quantity:     req.Quantity,
			Attendee: service.Attendee{
				ID:    accountID,
				Name:  req.AttendeeName,
				Email: req.AttendeeEmail,
				Phone: req.AttendeePhone,
			},
			PaymentMethod: "razorpay",
		},
	})
	if err != nil {
		log.Printf("WARN: Xác thực thanh toán %s thất bại: %v", req.PaymentID, err)
		status, msg := paymentErrorStatus(err)
		utils.ResponseError(c, status, msg, err.Error())
		return
	}

	utils.ResponseSuccess(c, http.StatusOK, "Thanh toán hợp lệ, đã phát hành vé.", tickets, nil)
}

// paymentErrorStatus ánh xạ lỗi nghiệp vụ sang HTTP status và message
// cho client.
func paymentErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, consts.ErrEventNotFound),
		errors.Is(err, consts.ErrTicketTypeNotFound),
		errors.Is(err, consts.ErrTicketNotFound):
		return http.StatusNotFound, "Không tìm thấy dữ liệu!"
	case errors.Is(err, consts.ErrSignatureMismatch):
		return http.StatusBadRequest, "Chữ ký thanh toán không hợp lệ!"
	case errors.Is(err, consts.ErrMalformedPaymentCallback):
		return http.StatusBadRequest, "Callback thanh toán thiếu trường bắt buộc!"
	case errors.Is(err, consts.ErrPaymentInProgress):
		return http.StatusConflict, "Giao dịch đang được xử lý, thử lại sau!"
	case errors.Is(err, consts.ErrInsufficientInventory):
		return http.StatusConflict, "Số lượng vé còn lại không đủ!"
	case errors.Is(err, consts.ErrTicketTypeInactive),
		errors.Is(err, consts.ErrOutsideSaleWindow):
		return http.StatusConflict, "Loại vé hiện không mở bán!"
	case errors.Is(err, consts.ErrInvalidQuantity):
		return http.StatusBadRequest, "Số lượng vé không hợp lệ!"
	case errors.Is(err, consts.ErrPaymentRequired):
		return http.StatusBadRequest, "Loại vé này phải thanh toán qua cổng thanh toán!"
	case errors.Is(err, consts.ErrUnauthorizedActor):
		return http.StatusForbidden, "Không có quyền thực hiện thao tác này!"
	case errors.Is(err, consts.ErrRefundNotAllowed),
		errors.Is(err, consts.ErrTicketNotRefundable),
		errors.Is(err, consts.ErrRefundAlreadyRequested),
		errors.Is(err, consts.ErrRefundNotRequested),
		errors.Is(err, consts.ErrInvalidRelease),
		errors.Is(err, consts.ErrTicketStateConflict):
		return http.StatusConflict, "Trạng thái vé không cho phép thao tác này!"
	case errors.Is(err, consts.ErrGatewayFailure):
		return http.StatusBadGateway, "Cổng thanh toán trả lỗi!"
	default:
		return http.StatusInternalServerError, "Lỗi hệ thống!"
	}
}
