package consts

import "errors"

var (
	ErrInvalidID          = errors.New("ID không hợp lệ")
	ErrEventNotFound      = errors.New("Sự kiện không tồn tại hoặc đã bị xóa")
	ErrTicketTypeNotFound = errors.New("Loại vé không tồn tại")
	ErrTicketNotFound     = errors.New("Không tìm thấy vé")

	ErrUnauthorizedActor = errors.New("Bạn không có quyền thao tác trên tài nguyên này")

	ErrTicketTypeInactive    = errors.New("Loại vé hiện không mở bán")
	ErrOutsideSaleWindow     = errors.New("Ngoài thời gian mở bán của loại vé")
	ErrInsufficientInventory = errors.New("Số lượng vé còn lại không đủ")
	ErrInvalidQuantity       = errors.New("Số lượng vé phải lớn hơn 0")
	ErrInvalidRelease        = errors.New("Không thể hoàn kho vượt quá số vé đã bán")

	ErrSignatureMismatch        = errors.New("Chữ ký thanh toán không hợp lệ")
	ErrMalformedPaymentCallback = errors.New("Callback thanh toán thiếu trường bắt buộc")
	ErrGatewayFailure           = errors.New("Cổng thanh toán trả về lỗi")
	ErrPaymentRequired          = errors.New("Loại vé này phải thanh toán qua cổng thanh toán")
	ErrPaymentInProgress        = errors.New("Giao dịch này đang được xử lý bởi một callback khác")

	ErrTicketNotRefundable    = errors.New("Vé không đủ điều kiện hoàn tiền")
	ErrRefundNotAllowed       = errors.New("Sự kiện không cho phép hoàn tiền")
	ErrRefundAlreadyRequested = errors.New("Vé đã có yêu cầu hoàn tiền trước đó")
	ErrRefundNotRequested     = errors.New("Vé chưa có yêu cầu hoàn tiền")

	ErrTicketStateConflict = errors.New("Trạng thái vé đã bị thay đổi bởi thao tác khác")

	// Lỗi cấu hình, không phải lỗi của client
	ErrMissingSecret = errors.New("Thiếu secret của cổng thanh toán")

	// Lỗi dữ liệu không thể retry (dùng cho worker)
	ErrFatalDataNotFound = errors.New("Dữ liệu của job không còn tồn tại")
	ErrFatalInvalidData  = errors.New("Dữ liệu của job không hợp lệ")
)
