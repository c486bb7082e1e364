package shiprocket

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dujiao-next/storefront/internal/cache"
	"github.com/dujiao-next/storefront/internal/logger"
)

var (
	ErrConfigInvalid   = errors.New("shiprocket config invalid")
	ErrAuthFailed      = errors.New("shiprocket authentication failed")
	ErrRequestFailed   = errors.New("shiprocket request failed")
	ErrResponseInvalid = errors.New("shiprocket response invalid")
)

const (
	defaultAPIBaseURL     = "https://apiv2.shiprocket.in/v1/external"
	defaultPickupLocation = "Primary"
	defaultTimeout        = 20 * time.Second
	defaultTokenTTL       = 24 * time.Hour
)

// Config Shiprocket 配置
type Config struct {
	Email          string
	Password       string
	APIBaseURL     string
	PickupLocation string
	Timeout        time.Duration
	TokenTTL       time.Duration
}

// OrderItem 物流订单行
type OrderItem struct {
	Name         string  `json:"name"`
	SKU          string  `json:"sku"`
	Units        int     `json:"units"`
	SellingPrice float64 `json:"selling_price"`
	Discount     float64 `json:"discount"`
	Tax          float64 `json:"tax"`
	HSN          string  `json:"hsn"`
}

// OrderPayload 创建物流订单请求
type OrderPayload struct {
	OrderID             string      `json:"order_id"`
	OrderDate           string      `json:"order_date"`
	PickupLocation      string      `json:"pickup_location"`
	BillingCustomerName string      `json:"billing_customer_name"`
	BillingLastName     string      `json:"billing_last_name"`
	BillingAddress      string      `json:"billing_address"`
	BillingAddress2     string      `json:"billing_address_2"`
	BillingCity         string      `json:"billing_city"`
	BillingPincode      string      `json:"billing_pincode"`
	BillingState        string      `json:"billing_state"`
	BillingCountry      string      `json:"billing_country"`
	BillingEmail        string      `json:"billing_email"`
	BillingPhone        string      `json:"billing_phone"`
	ShippingIsBilling   bool        `json:"shipping_is_billing"`
	OrderItems          []OrderItem `json:"order_items"`
	PaymentMethod       string      `json:"payment_method"`
	SubTotal            float64     `json:"sub_total"`
	Length              float64     `json:"length"`
	Breadth             float64     `json:"breadth"`
	Height              float64     `json:"height"`
	Weight              float64     `json:"weight"`
}

// OrderResult 创建物流订单结果
type OrderResult struct {
	OrderID    string
	ShipmentID string
	Status     string
	Raw        map[string]interface{}
}

// Client Shiprocket HTTP 客户端，令牌缓存在 Store 中
type Client struct {
	cfg    Config
	http   *http.Client
	tokens cache.Store
}

// NewClient 创建客户端
func NewClient(cfg Config, tokens cache.Store) *Client {
	cfg.normalize()
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		tokens: tokens,
	}
}

// PickupLocation 返回发货仓名称
func (c *Client) PickupLocation() string {
	return c.cfg.PickupLocation
}

func (c *Config) normalize() {
	c.Email = strings.TrimSpace(c.Email)
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.PickupLocation = strings.TrimSpace(c.PickupLocation)
	if c.PickupLocation == "" {
		c.PickupLocation = defaultPickupLocation
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
}

// ValidateConfig 校验登录凭据
func ValidateConfig(cfg Config) error {
	if cfg.Email == "" || cfg.Password == "" {
		return fmt.Errorf("%w: email and password are required", ErrConfigInvalid)
	}
	if _, err := url.ParseRequestURI(cfg.APIBaseURL); err != nil {
		return fmt.Errorf("%w: api_base_url is invalid", ErrConfigInvalid)
	}
	return nil
}

// Login 使用账号密码登录并刷新缓存令牌
func (c *Client) Login(ctx context.Context) (string, error) {
	if err := ValidateConfig(c.cfg); err != nil {
		return "", err
	}
	body, status, err := c.do(ctx, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    c.cfg.Email,
		"password": c.cfg.Password,
	})
	if err != nil {
		return "", err
	}
	raw, err := decodeRawMap(body)
	if err != nil {
		return "", err
	}
	token := readString(raw, "token")
	if status < 200 || status >= 300 || token == "" {
		logger.Warnw("shiprocket_login_failed", "http_status", status, "message", readString(raw, "message"))
		return "", fmt.Errorf("%w: http status %d", ErrAuthFailed, status)
	}
	if c.tokens != nil {
		if err := c.tokens.Set(ctx, cache.KeyShiprocketToken, []byte(token), c.cfg.TokenTTL); err != nil {
			logger.Warnw("shiprocket_token_cache_failed", "error", err)
		}
	}
	return token, nil
}

// Token 优先读取缓存令牌，缺失时自动登录
func (c *Client) Token(ctx context.Context) (string, error) {
	if c.tokens != nil {
		raw, hit, err := c.tokens.Get(ctx, cache.KeyShiprocketToken)
		if err != nil {
			logger.Warnw("shiprocket_token_cache_read_failed", "error", err)
		}
		if hit && len(raw) > 0 {
			return string(raw), nil
		}
	}
	logger.Infow("shiprocket_token_missing_auto_login")
	return c.Login(ctx)
}

// CreateOrder 创建物流订单，payload 可为 OrderPayload 或原始 JSON 对象
func (c *Client) CreateOrder(ctx context.Context, payload interface{}) (*OrderResult, error) {
	raw, err := c.authorized(ctx, http.MethodPost, "/orders/create/adhoc", payload)
	if err != nil {
		return nil, err
	}
	return &OrderResult{
		OrderID:    readString(raw, "order_id"),
		ShipmentID: readString(raw, "shipment_id"),
		Status:     readString(raw, "status"),
		Raw:        raw,
	}, nil
}

// Track 查询运单轨迹
func (c *Client) Track(ctx context.Context, shipmentID string) (map[string]interface{}, error) {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return nil, fmt.Errorf("%w: shipment id is required", ErrConfigInvalid)
	}
	return c.authorized(ctx, http.MethodGet, "/courier/track/shipment/"+url.PathEscape(shipmentID), nil)
}

// ListShipments 查询全部运单
func (c *Client) ListShipments(ctx context.Context) (map[string]interface{}, error) {
	return c.authorized(ctx, http.MethodGet, "/shipments", nil)
}

func (c *Client) authorized(ctx context.Context, method, path string, payload interface{}) (map[string]interface{}, error) {
	token, err := c.Token(ctx)
	if err != nil {
		return nil, err
	}
	body, status, err := c.do(ctx, method, path, token, payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && c.tokens != nil {
		_ = c.tokens.Del(ctx, cache.KeyShiprocketToken)
	}
	raw, err := decodeRawMap(body)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return raw, fmt.Errorf("%w: http status %d: %s", ErrRequestFailed, status, readString(raw, "message"))
	}
	return raw, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, payload interface{}) ([]byte, int, error) {
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
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
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

func decodeRawMap(body []byte) (map[string]interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	var raw map[string]interface{}
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: non-json response", ErrResponseInvalid)
	}
	return raw, nil
}

func readString(raw map[string]interface{}, key string) string {
	if raw == nil {
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
		return typed.String()
	case float64:
		return strconv.FormatInt(int64(typed), 10)
	case bool:
		return strconv.FormatBool(typed)
	default:
		return ""
	}
}
