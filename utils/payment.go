package utils

import (
	"EventManagement/configs"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// RazorpayClient gọi REST API của Razorpay bằng Basic Auth (key_id làm
// username, key_secret làm password). Số tiền luôn tính theo đơn vị nhỏ
// nhất của tiền tệ (paise, xu).
type RazorpayClient struct {
	baseURL   string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewRazorpayClient() *RazorpayClient {
	return &RazorpayClient{
		baseURL:   configs.GetRazorpayBaseURL(),
		keyID:     configs.GetRazorpayKeyID(),
		keySecret: configs.GetRazorpayKeySecret(),
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

type razorpayOrderRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	Receipt        string `json:"receipt"`
	PaymentCapture int    `json:"payment_capture"`
}

type razorpayOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type razorpayRefundRequest struct {
	Amount int64 `json:"amount"`
}

type razorpayRefundResponse struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Status    string `json:"status"`
}

type razorpayErrorResponse struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

func (r *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error) {
	body := razorpayOrderRequest{
		Amount:         amount,
		Currency:       currency,
		Receipt:        receipt,
		PaymentCapture: 1,
	}

	var resp razorpayOrderResponse
	if err := r.post(ctx, "/v1/orders", body, &resp); err != nil {
		return "", err
	}

	log.Printf("INFO: Đã tạo order Razorpay %s (amount=%d %s, receipt=%s)", resp.ID, resp.Amount, resp.Currency, receipt)
	return resp.ID, nil
}

func (r *RazorpayClient) Refund(ctx context.Context, paymentID string, amount int64) (string, error) {
	body := razorpayRefundRequest{Amount: amount}

	var resp razorpayRefundResponse
	if err := r.post(ctx, fmt.Sprintf("/v1/payments/%s/refund", paymentID), body, &resp); err != nil {
		return "", err
	}

	log.Printf("INFO: Razorpay đã hoàn %d cho giao dịch %s (refund=%s)", resp.Amount, paymentID, resp.ID)
	return resp.ID, nil
}

func (r *RazorpayClient) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("lỗi encode request Razorpay: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(r.keyID, r.keySecret)

	res, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("lỗi gọi Razorpay %s: %w", path, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("lỗi đọc response Razorpay: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		var apiErr razorpayErrorResponse
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Error.Description != "" {
			return fmt.Errorf("Razorpay trả lỗi %d (%s): %s", res.StatusCode, apiErr.Error.Code, apiErr.Error.Description)
		}
		return fmt.Errorf("Razorpay trả lỗi %d: %s", res.StatusCode, string(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("lỗi decode response Razorpay: %w", err)
	}
	return nil
}
