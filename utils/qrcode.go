package utils

import (
	"EventManagement/configs"
	"fmt"

	"github.com/skip2/go-qrcode"
)

// GenerateTicketQR render payload của vé thành ảnh PNG để nhúng vào
// mail hoặc trả thẳng qua API.
func GenerateTicketQR(payload string) ([]byte, error) {
	png, err := qrcode.Encode(payload, qrcode.Medium, configs.GetQRCodeSize())
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo mã QR cho vé: %w", err)
	}
	return png, nil
}
