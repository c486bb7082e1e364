package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var (
	ErrConfigInvalid    = errors.New("razorpay config invalid")
	ErrRequestFailed    = errors.New("razorpay request failed")
	ErrResponseInvalid  = errors.New("razorpay response invalid")
	ErrSignatureInvalid = errors.New("razorpay signature invalid")
)

const (
	defaultAPIBaseURL = "https://api.razorpay.com/v1"
	defaultTimeout    = 15 * time.Second
	defaultCurrency   = "INR"
)

// Config Razorpay 配置
type Config struct {
	KeyID         string
	KeySecret     string
	WebhookSecret string
	Currency      string
	APIBaseURL    string
	Timeout       time.Duration
}

// Order 网关订单
type Order struct {
	ID         string                 `json:"id"`
	Entity     string                 `json:"entity"`
	Amount     int64                  `json:"amount"`
	AmountPaid int64                  `json:"amount_paid"`
	AmountDue  int64                  `json:"amount_due"`
	Currency   string                 `json:"currency"`
	Receipt    string                 `json:"receipt"`
	Status     string                 `json:"status"`
	Attempts   int64                  `json:"attempts"`
	CreatedAt  int64                  `json:"created_at"`
	Raw        map[string]interface{} `json:"-"`
}

// Payment 网关支付记录
type Payment struct {
	ID        string                 `json:"id"`
	OrderID   string                 `json:"order_id"`
	Amount    int64                  `json:"amount"`
	Currency  string                 `json:"currency"`
	Status    string                 `json:"status"`
	Method    string                 `json:"method"`
	Email     string                 `json:"email"`
	Contact   string                 `json:"contact"`
	CreatedAt int64                  `json:"created_at"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Refund 退款记录
type Refund struct {
	ID        string `json:"id"`
	PaymentID string `json:"payment_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
}

// WebhookEvent 解析后的 Webhook 事件
type WebhookEvent struct {
	Event     string
	PaymentID string
	OrderID   string
	Amount    int64
	Currency  string
	Status    string
	Raw       map[string]interface{}
}

// Client Razorpay HTTP 客户端
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient 创建客户端
func NewClient(cfg Config) *Client {
	cfg.normalize()
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// Currency 返回结算币种
func (c *Client) Currency() string {
	return c.cfg.Currency
}

func (c *Config) normalize() {
	c.KeyID = strings.TrimSpace(c.KeyID)
	c.KeySecret = strings.TrimSpace(c.KeySecret)
	c.WebhookSecret = strings.TrimSpace(c.WebhookSecret)
	c.Currency = strings.ToUpper(strings.TrimSpace(c.Currency))
	if c.Currency == "" {
		c.Currency = defaultCurrency
	}
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// ValidateConfig 校验调用网关 API 所需的凭据
func ValidateConfig(cfg Config) error {
	if cfg.KeyID == "" {
		return fmt.Errorf("%w: key_id is required", ErrConfigInvalid)
	}
	if cfg.KeySecret == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// CreateOrder 创建网关订单，amount 为最小货币单位
func (c *Client) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	if err := ValidateConfig(c.cfg); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrConfigInvalid)
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = c.cfg.Currency
	}
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  strings.TrimSpace(receipt),
	}
	body, status, err := c.do(ctx, http.MethodPost, "/orders", payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, status, readErrorDescription(body))
	}
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("%w: decode order failed", ErrResponseInvalid)
	}
	if strings.TrimSpace(order.ID) == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrResponseInvalid)
	}
	order.Raw, _ = decodeRawMap(body)
	return &order, nil
}

// FetchPayments 分页查询支付记录
func (c *Client) FetchPayments(ctx context.Context, count, skip int) ([]Payment, error) {
	if err := ValidateConfig(c.cfg); err != nil {
		return nil, err
	}
	if count <= 0 || count > 100 {
		count = 10
	}
	if skip < 0 {
		skip = 0
	}
	path := "/payments?count=" + strconv.Itoa(count) + "&skip=" + strconv.Itoa(skip)
	body, status, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, status, readErrorDescription(body))
	}
	var envelope struct {
		Items []map[string]interface{} `json:"items"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode payments failed", ErrResponseInvalid)
	}
	payments := make([]Payment, 0, len(envelope.Items))
	for _, raw := range envelope.Items {
		payments = append(payments, paymentFromMap(raw))
	}
	return payments, nil
}

// FetchPayment 查询单笔支付
func (c *Client) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if err := ValidateConfig(c.cfg); err != nil {
		return nil, err
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrConfigInvalid)
	}
	body, status, err := c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, status, readErrorDescription(body))
	}
	raw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	payment := paymentFromMap(raw)
	return &payment, nil
}

// RefundPayment 发起退款，amount<=0 表示全额
func (c *Client) RefundPayment(ctx context.Context, paymentID string, amount int64) (*Refund, error) {
	if err := ValidateConfig(c.cfg); err != nil {
		return nil, err
	}
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", ErrConfigInvalid)
	}
	payload := map[string]interface{}{}
	if amount > 0 {
		payload["amount"] = amount
	}
	body, status, err := c.do(ctx, http.MethodPost, "/payments/"+url.PathEscape(paymentID)+"/refund", payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, status, readErrorDescription(body))
	}
	var refund Refund
	if err := json.Unmarshal(body, &refund); err != nil {
		return nil, fmt.Errorf("%w: decode refund failed", ErrResponseInvalid)
	}
	return &refund, nil
}

// VerifyPaymentSignature 校验 HMAC-SHA256(order_id|payment_id)
func (c *Client) VerifyPaymentSignature(orderID, paymentID, signature string) error {
	return VerifyPaymentSignature(c.cfg.KeySecret, orderID, paymentID, signature)
}

// VerifyWebhookSignature 校验 Webhook 原始报文签名
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	return VerifyWebhookSignature(c.cfg.WebhookSecret, body, signature)
}

// VerifyPaymentSignature 校验支付回调签名
func VerifyPaymentSignature(secret, orderID, paymentID, signature string) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%w: key_secret is required", ErrConfigInvalid)
	}
	expected := ComputeSignature(secret, []byte(orderID+"|"+paymentID))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureInvalid
	}
	return nil
}

// VerifyWebhookSignature 校验 Webhook 签名
func VerifyWebhookSignature(secret string, body []byte, signature string) error {
	if strings.TrimSpace(secret) == "" {
		return fmt.Errorf("%w: webhook_secret is required", ErrConfigInvalid)
	}
	expected := ComputeSignature(secret, body)
	if !hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature))) {
		return ErrSignatureInvalid
	}
	return nil
}

// ComputeSignature 计算十六进制 HMAC-SHA256
func ComputeSignature(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	_, _ = h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// ParseWebhookEvent 解析 Webhook 报文（签名需先行校验）
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	raw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	event := &WebhookEvent{
		Event: readString(raw, "event"),
		Raw:   raw,
	}
	if event.Event == "" {
		return nil, fmt.Errorf("%w: missing event", ErrResponseInvalid)
	}
	entity := readMap(readMap(readMap(raw, "payload"), "payment"), "entity")
	if entity != nil {
		payment := paymentFromMap(entity)
		event.PaymentID = payment.ID
		event.OrderID = payment.OrderID
		event.Amount = payment.Amount
		event.Currency = payment.Currency
		event.Status = payment.Status
	}
	return event, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: encode request failed", ErrRequestFailed)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	req.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	return body, resp.StatusCode, nil
}

func paymentFromMap(raw map[string]interface{}) Payment {
	return Payment{
		ID:        readString(raw, "id"),
		OrderID:   readString(raw, "order_id"),
		Amount:    readInt64(raw, "amount"),
		Currency:  readString(raw, "currency"),
		Status:    readString(raw, "status"),
		Method:    readString(raw, "method"),
		Email:     readString(raw, "email"),
		Contact:   readString(raw, "contact"),
		CreatedAt: readInt64(raw, "created_at"),
		Raw:       raw,
	}
}

func readErrorDescription(body []byte) string {
	raw, err := decodeRawMap(body)
	if err != nil {
		return strings.TrimSpace(string(body))
	}
	if desc := readString(readMap(raw, "error"), "description"); desc != "" {
		return desc
	}
	return strings.TrimSpace(string(body))
}

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return raw, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil || strings.TrimSpace(key) == "" {
		return ""
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return ""
	}
	switch typed := value.(type) {
	case string:
		return strings.TrimSpace(typed)
	case json.Number:
		return strings.TrimSpace(typed.String())
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case int64:
		return strconv.FormatInt(typed, 10)
	case int:
		return strconv.Itoa(typed)
	default:
		return ""
	}
}

func readMap(raw map[string]interface{}, key string) map[string]interface{} {
	if raw == nil || strings.TrimSpace(key) == "" {
		return nil
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return nil
	}
	mapped, ok := value.(map[string]interface{})
	if !ok {
		return nil
	}
	return mapped
}

func readInt64(raw map[string]interface{}, key string) int64 {
	if raw == nil || strings.TrimSpace(key) == "" {
		return 0
	}
	value, ok := raw[key]
	if !ok || value == nil {
		return 0
	}
	switch typed := value.(type) {
	case int64:
		return typed
	case int:
		return int64(typed)
	case float64:
		return int64(typed)
	case json.Number:
		parsed, err := typed.Int64()
		if err != nil {
			return 0
		}
		return parsed
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(typed), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	default:
		return 0
	}
}
