package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"eshop/internal/config"
	"eshop/internal/model"

	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		total float64
		want  int64
	}{
		{10.99, 1099},
		{25.00, 2500},
		{0.01, 1},
		{19.90, 1990},
		{1234.56, 123456},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.2f", tt.total), func(t *testing.T) {
			require.Equal(t, tt.want, MinorUnits(tt.total))
		})
	}
}

func testGatewayConfig(baseURL string) config.GatewayConfig {
	return config.GatewayConfig{
		MerchantID:      "PGTESTPAYUAT",
		SaltKey:         "099eb0cd-02cf-4e2a-8aca-3e6c6aff0399",
		SaltIndex:       1,
		BaseURL:         baseURL,
		PayPath:         "/pg/v1/pay",
		RedirectBaseURL: "http://localhost:3000",
		TimeoutSeconds:  5,
	}
}

func testOrderAndPayer() (*model.Order, *model.User) {
	order := &model.Order{
		ID:      7,
		OrderNo: "ORD2024011512000000000001",
		UserID:  42,
		Total:   10.99,
		Status:  model.OrderStatusCreated,
	}
	payer := &model.User{
		ID:    42,
		Name:  "Asha",
		Phone: "9999999999",
		Email: "asha@example.com",
	}
	return order, payer
}

func TestClient_InitiatePayment(t *testing.T) {
	t.Run("builds signed request with one transaction id", func(t *testing.T) {
		var captured PaymentRequest
		var verifyHeader, acceptHeader, contentType string

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/pg/v1/pay", r.URL.Path)

			verifyHeader = r.Header.Get("X-VERIFY")
			acceptHeader = r.Header.Get("Accept")
			contentType = r.Header.Get("Content-Type")

			body, err := io.ReadAll(r.Body)
			require.NoError(t, err)

			var envelope struct {
				Request string `json:"request"`
			}
			require.NoError(t, json.Unmarshal(body, &envelope))

			// X-VERIFY 必须能用同一份密钥对 payload 复算出来
			require.Equal(t, Sign(envelope.Request, "/pg/v1/pay", "099eb0cd-02cf-4e2a-8aca-3e6c6aff0399", 1), verifyHeader)

			decoded, err := base64.StdEncoding.DecodeString(envelope.Request)
			require.NoError(t, err)
			require.NoError(t, json.Unmarshal(decoded, &captured))

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprintf(w, `{"success":true,"transactionId":"T999"}`)
		}))
		defer srv.Close()

		client := NewClient(testGatewayConfig(srv.URL))
		order, payer := testOrderAndPayer()

		ack, err := client.InitiatePayment(context.Background(), order, payer)
		require.NoError(t, err)

		require.Equal(t, "application/json", acceptHeader)
		require.Equal(t, "application/json", contentType)

		require.Equal(t, "PGTESTPAYUAT", captured.MerchantID)
		require.Equal(t, "MUID42", captured.MerchantUserID)
		require.Equal(t, "Asha", captured.Name)
		require.Equal(t, int64(1099), captured.Amount)
		require.Equal(t, "POST", captured.RedirectMode)
		require.Equal(t, "9999999999", captured.MobileNumber)
		require.Equal(t, "PAY_PAGE", captured.PaymentInstrument.Type)

		// 同一个商户交易号贯穿报文和回跳地址
		require.NotEmpty(t, captured.MerchantTransactionID)
		require.Equal(t,
			"http://localhost:3000/orders/status/"+captured.MerchantTransactionID,
			captured.RedirectURL)

		require.Equal(t, captured.MerchantTransactionID, ack.MerchantTransactionID)
		require.Equal(t, "T999", ack.TransactionID)
	})

	t.Run("falls back to merchant transaction id when provider omits one", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"code":"PAYMENT_INITIATED"}`)
		}))
		defer srv.Close()

		client := NewClient(testGatewayConfig(srv.URL))
		order, payer := testOrderAndPayer()

		ack, err := client.InitiatePayment(context.Background(), order, payer)
		require.NoError(t, err)
		require.Equal(t, ack.MerchantTransactionID, ack.TransactionID)
	})

	t.Run("non-2xx response becomes GatewayError with provider message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"success":false,"message":"Key not configured"}`)
		}))
		defer srv.Close()

		client := NewClient(testGatewayConfig(srv.URL))
		order, payer := testOrderAndPayer()

		_, err := client.InitiatePayment(context.Background(), order, payer)
		require.Error(t, err)

		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, http.StatusBadRequest, gwErr.StatusCode)
		require.Equal(t, "Key not configured", gwErr.Message)
	})

	t.Run("transport failure becomes GatewayError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // 立即关掉，模拟网络失败

		client := NewClient(testGatewayConfig(srv.URL))
		order, payer := testOrderAndPayer()

		_, err := client.InitiatePayment(context.Background(), order, payer)
		var gwErr *GatewayError
		require.ErrorAs(t, err, &gwErr)
	})
}
