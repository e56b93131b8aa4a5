package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"eshop/internal/config"
	"eshop/internal/model"
	"eshop/pkg/idgen"

	"github.com/shopspring/decimal"
)

// GatewayError 网关侧失败（网络错误 / 非 2xx 响应）
// 拿到这个错误时绝不能认为已经扣款
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("payment gateway error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment gateway error: %s", e.Message)
}

// PaymentRequest PhonePe 托管收银台下单报文（瞬态，不落库）
type PaymentRequest struct {
	MerchantID            string            `json:"merchantId"`
	MerchantTransactionID string            `json:"merchantTransactionId"`
	MerchantUserID        string            `json:"merchantUserId"`
	Name                  string            `json:"name"`
	Amount                int64             `json:"amount"` // 最小货币单位（paise）
	RedirectURL           string            `json:"redirectUrl"`
	RedirectMode          string            `json:"redirectMode"`
	MobileNumber          string            `json:"mobileNumber"`
	PaymentInstrument     PaymentInstrument `json:"paymentInstrument"`
}

type PaymentInstrument struct {
	Type string `json:"type"`
}

// Ack 网关受理结果
type Ack struct {
	// MerchantTransactionID 本次支付尝试生成的商户交易号，
	// 同一个号贯穿下单报文和回跳地址
	MerchantTransactionID string
	// TransactionID 对外暴露、最终落库的交易号：
	// 网关响应里带 transactionId 就用它，否则回退到商户交易号
	TransactionID string
}

// PaymentInitiator 供编排层依赖的网关契约，便于测试替换
type PaymentInitiator interface {
	InitiatePayment(ctx context.Context, order *model.Order, payer *model.User) (*Ack, error)
}

// Client PhonePe 网关客户端
// 凭证全部来自配置，客户端本身不落任何状态
type Client struct {
	cfg        config.GatewayConfig
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// MinorUnits 主货币单位 -> 最小货币单位（x100）
// 10.99 必须精确得到 1099，浮点直接乘会得到 1098.999...
func MinorUnits(total float64) int64 {
	return decimal.NewFromFloat(total).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// InitiatePayment 发起托管收银台支付
//
// 每次调用生成唯一的商户交易号，同时写进 merchantTransactionId 和
// redirectUrl，保证回跳查询能按同一个号找到订单
func (c *Client) InitiatePayment(ctx context.Context, order *model.Order, payer *model.User) (*Ack, error) {
	transactionID := idgen.GenerateTransactionNo()

	payReq := PaymentRequest{
		MerchantID:            c.cfg.MerchantID,
		MerchantTransactionID: transactionID,
		MerchantUserID:        fmt.Sprintf("MUID%d", payer.ID),
		Name:                  payer.Name,
		Amount:                MinorUnits(order.Total),
		RedirectURL:           fmt.Sprintf("%s/orders/status/%s", c.cfg.RedirectBaseURL, transactionID),
		RedirectMode:          "POST",
		MobileNumber:          payer.Phone,
		PaymentInstrument:     PaymentInstrument{Type: "PAY_PAGE"},
	}

	payload, err := json.Marshal(payReq)
	if err != nil {
		return nil, fmt.Errorf("序列化支付报文失败: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(payload)

	checksum := Sign(encoded, c.cfg.PayPath, c.cfg.SaltKey, c.cfg.SaltIndex)

	body, _ := json.Marshal(map[string]string{"request": encoded})

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+c.cfg.PayPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-VERIFY", checksum)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &GatewayError{Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var gwResp struct {
		Success       bool   `json:"success"`
		Code          string `json:"code"`
		Message       string `json:"message"`
		TransactionID string `json:"transactionId"`
	}
	// 非 JSON 响应按原文透传错误信息
	_ = json.Unmarshal(respBody, &gwResp)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := gwResp.Message
		if msg == "" {
			msg = string(respBody)
		}
		return nil, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	providerID := gwResp.TransactionID
	if providerID == "" {
		providerID = transactionID
	}

	return &Ack{
		MerchantTransactionID: transactionID,
		TransactionID:         providerID,
	}, nil
}
