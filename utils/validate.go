package utils

import (
	"EventManagement/dto"
	"fmt"
	"net/mail"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	Validator         *validator.Validate = validator.New()
	PhoneRegex        string              = `^(0|\+84)(3|5|7|8|9)\d{8}$`
	vietnamPhoneRegex                     = regexp.MustCompile(`^(0|\+84)(3|5|7|8|9)[0-9]{8}$`)
)

func HandlerValidation(err error) string {
	errValidator := ""
	if err == nil {
		return errValidator
	}
	if errVa, ok := err.(validator.ValidationErrors); ok {
		for _, e := range errVa {
			switch e.Tag() {
			case "required":
				errValidator += fmt.Sprintf("%s không được trống, ", strings.ToLower(e.Field()))
			case "email":
				errValidator += fmt.Sprintf("%s không phải là một email hợp lệ, ", strings.ToLower(e.Field()))
			case "phoneVn":
				errValidator += fmt.Sprintf("%s phải theo định dạng số phone Việt Nam, ", strings.ToLower(e.Field()))
			case "gt":
				errValidator += fmt.Sprintf("%s phải lớn hơn %s, ", strings.ToLower(e.Field()), e.Param())
			}
		}
		errValidator = strings.TrimSuffix(errValidator, ", ")
	}
	return errValidator
}

// Payment
func ValidateCreateOrderReq(req dto.CreateOrderRequest) []string {
	var errs []string

	if req.EventID.IsZero() {
		errs = append(errs, "event_id là bắt buộc")
	}
	if req.TicketTypeID.IsZero() {
		errs = append(errs, "ticket_type_id là bắt buộc")
	}
	if req.Quantity <= 0 {
		errs = append(errs, "quantity phải lớn hơn 0")
	}
	if req.Currency != "" && len(req.Currency) != 3 {
		errs = append(errs, "currency phải là mã ISO 3 ký tự")
	}

	return errs
}

func ValidateVerifyPaymentReq(req dto.VerifyPaymentRequest) []string {
	var errs []string

	if strings.TrimSpace(req.OrderID) == "" {
		errs = append(errs, "razorpay_order_id là bắt buộc")
	}
	if strings.TrimSpace(req.PaymentID) == "" {
		errs = append(errs, "razorpay_payment_id là bắt buộc")
	}
	if strings.TrimSpace(req.Signature) == "" {
		errs = append(errs, "razorpay_signature là bắt buộc")
	}
	if req.EventID.IsZero() {
		errs = append(errs, "event_id là bắt buộc")
	}
	if req.TicketTypeID.IsZero() {
		errs = append(errs, "ticket_type_id là bắt buộc")
	}
	if req.Quantity <= 0 {
		errs = append(errs, "quantity phải lớn hơn 0")
	}

	errs = append(errs, validateAttendeeFields(req.AttendeeName, req.AttendeeEmail, req.AttendeePhone)...)

	return errs
}

// Ticket
func ValidateTicketPurchaseReq(req dto.TicketPurchaseRequest) []string {
	var errs []string

	if req.EventID.IsZero() {
		errs = append(errs, "event_id là bắt buộc")
	}
	if req.TicketTypeID.IsZero() {
		errs = append(errs, "ticket_type_id là bắt buộc")
	}
	if req.Quantity <= 0 {
		errs = append(errs, "quantity phải lớn hơn 0")
	}

	errs = append(errs, validateAttendeeFields(req.AttendeeName, req.AttendeeEmail, req.AttendeePhone)...)

	return errs
}

func ValidateTicketReq(req dto.ValidateTicketRequest) []string {
	var errs []string

	if strings.TrimSpace(req.TicketNumber) == "" && strings.TrimSpace(req.QRCodeData) == "" {
		errs = append(errs, "phải gửi ticket_number hoặc qr_code_data")
	}

	return errs
}

func ValidateRefundTicketReq(req dto.RefundTicketRequest) []string {
	var errs []string

	if strings.TrimSpace(req.Reason) == "" {
		errs = append(errs, "lý do hoàn tiền (reason) là bắt buộc")
	}

	return errs
}

func validateAttendeeFields(name, email, phone string) []string {
	var errs []string

	if strings.TrimSpace(name) == "" {
		errs = append(errs, "tên người tham dự (attendee_name) là bắt buộc")
	}

	email = strings.TrimSpace(email)
	if email == "" {
		errs = append(errs, "email người tham dự (attendee_email) là bắt buộc")
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs = append(errs, "email người tham dự không đúng định dạng")
	}

	if phone = strings.TrimSpace(phone); phone != "" && !vietnamPhoneRegex.MatchString(phone) {
		errs = append(errs, "số điện thoại (attendee_phone) không đúng định dạng Việt Nam")
	}

	return errs
}

func init() {
	// Custom validator cho số điện thoại VN
	_ = Validator.RegisterValidation("phoneVn", func(fl validator.FieldLevel) bool {
		phone := fl.Field().String()
		matched, _ := regexp.MatchString(PhoneRegex, phone)
		return matched
	})
}
