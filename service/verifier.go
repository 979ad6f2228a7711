package service

import (
	"EventManagement/consts"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// PaymentVerifier xác thực callback thanh toán bằng HMAC-SHA256 trên
// chuỗi "<orderID>|<paymentID>" với key secret của gateway. Chữ ký là
// hex thường; so sánh bằng hmac.Equal để tránh lộ thông tin qua timing.
type PaymentVerifier struct {
	secret string
}

func NewPaymentVerifier(secret string) *PaymentVerifier {
	return &PaymentVerifier{secret: secret}
}

// Verify trả về true khi chữ ký khớp. Thiếu secret là lỗi cấu hình,
// thiếu trường trong callback là lỗi dữ liệu đầu vào; cả hai trả error
// riêng để caller không nhầm với chữ ký sai.
func (v *PaymentVerifier) Verify(orderID, paymentID, signature string) (bool, error) {
	if v.secret == "" {
		return false, consts.ErrMissingSecret
	}
	if orderID == "" || paymentID == "" || signature == "" {
		return false, consts.ErrMalformedPaymentCallback
	}

	mac := hmac.New(sha256.New, []byte(v.secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature)), nil
}
