package service

import (
	"EventManagement/consts"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// HMAC-SHA256("order_1|pay_1", "s3cr3t")
const knownSignature = "c4ba7785e595b717abd8b4847eaf30e97f23acbdbe1b8f5cbbf17d28d63b068f"

func TestVerifySignatureHople(t *testing.T) {
	v := NewPaymentVerifier("s3cr3t")

	ok, err := v.Verify("order_1", "pay_1", knownSignature)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifySignatureSai(t *testing.T) {
	v := NewPaymentVerifier("s3cr3t")

	// Đổi một ký tự hex cuối
	flipped := knownSignature[:len(knownSignature)-1] + "e"
	ok, err := v.Verify("order_1", "pay_1", flipped)
	require.NoError(t, err)
	assert.False(t, ok)

	// Hex in hoa không được chấp nhận, so sánh trên chuỗi hex thường
	ok, err = v.Verify("order_1", "pay_1", strings.ToUpper(knownSignature))
	require.NoError(t, err)
	assert.False(t, ok)

	// Chữ ký đúng nhưng order khác
	ok, err = v.Verify("order_2", "pay_1", knownSignature)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyThieuSecret(t *testing.T) {
	v := NewPaymentVerifier("")

	ok, err := v.Verify("order_1", "pay_1", knownSignature)
	assert.ErrorIs(t, err, consts.ErrMissingSecret)
	assert.False(t, ok)
}

func TestVerifyThieuTruong(t *testing.T) {
	v := NewPaymentVerifier("s3cr3t")

	// Thiếu trường là lỗi dữ liệu đầu vào, không phải chữ ký sai
	ok, err := v.Verify("", "pay_1", knownSignature)
	assert.ErrorIs(t, err, consts.ErrMalformedPaymentCallback)
	assert.False(t, ok)

	ok, err = v.Verify("order_1", "", knownSignature)
	assert.ErrorIs(t, err, consts.ErrMalformedPaymentCallback)
	assert.False(t, ok)

	ok, err = v.Verify("order_1", "pay_1", "")
	assert.ErrorIs(t, err, consts.ErrMalformedPaymentCallback)
	assert.False(t, ok)
}
