package service

import (
	"context"
	"testing"
	"time"

	"eshop/internal/gateway"
	"eshop/internal/model"
	"eshop/internal/repository"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderStoreMock struct{ mock.Mock }

func (m *orderStoreMock) GetOrder(ctx context.Context, orderNo string) (*model.Order, error) {
	args := m.Called(ctx, orderNo)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *orderStoreMock) GetOrderByTransactionID(ctx context.Context, transactionID string) (*model.Order, error) {
	args := m.Called(ctx, transactionID)
	o, _ := args.Get(0).(*model.Order)
	return o, args.Error(1)
}

func (m *orderStoreMock) MarkOrderPaid(ctx context.Context, order *model.Order, transactionID string) error {
	args := m.Called(ctx, order, transactionID)
	return args.Error(0)
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) InitiatePayment(ctx context.Context, order *model.Order, payer *model.User) (*gateway.Ack, error) {
	args := m.Called(ctx, order, payer)
	ack, _ := args.Get(0).(*gateway.Ack)
	return ack, args.Error(1)
}

type noopLock struct{}

func (noopLock) Lock(ctx context.Context, retryInterval time.Duration, maxRetries int) error {
	return nil
}

func (noopLock) Unlock(ctx context.Context) error { return nil }

func newTestCheckout(store OrderStore, gw gateway.PaymentInitiator) *CheckoutService {
	return &CheckoutService{
		orders:  store,
		gateway: gw,
		newLock: func(orderNo string) PayLock { return noopLock{} },
	}
}

func createdOrder() *model.Order {
	return &model.Order{
		ID:      1,
		OrderNo: "A1",
		UserID:  42,
		Total:   25.00,
		Status:  model.OrderStatusCreated,
	}
}

func payer() *model.User {
	return &model.User{ID: 42, Name: "Asha", Phone: "9999999999"}
}

func TestCheckoutService_Pay(t *testing.T) {
	ctx := context.Background()

	t.Run("success marks order paid with gateway transaction id", func(t *testing.T) {
		order := createdOrder()
		store := new(orderStoreMock)
		store.On("GetOrder", mock.Anything, "A1").Return(order, nil)
		store.On("MarkOrderPaid", mock.Anything, order, "T999").Return(nil)

		gw := new(gatewayMock)
		gw.On("InitiatePayment", mock.Anything, order, mock.Anything).
			Return(&gateway.Ack{MerchantTransactionID: "TXN1", TransactionID: "T999"}, nil)

		svc := newTestCheckout(store, gw)
		result, err := svc.Pay(ctx, "A1", payer(), &PayRequest{PaymentMethod: "upi"})

		require.NoError(t, err)
		require.Equal(t, "T999", result.TransactionID)
		store.AssertExpectations(t)
		gw.AssertExpectations(t)
	})

	t.Run("missing order returns not found without touching the gateway", func(t *testing.T) {
		store := new(orderStoreMock)
		store.On("GetOrder", mock.Anything, "missing").Return(nil, repository.ErrOrderNotFound)

		gw := new(gatewayMock)

		svc := newTestCheckout(store, gw)
		_, err := svc.Pay(ctx, "missing", payer(), &PayRequest{})

		require.ErrorIs(t, err, repository.ErrOrderNotFound)
		gw.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("gateway failure leaves order untouched", func(t *testing.T) {
		order := createdOrder()
		store := new(orderStoreMock)
		store.On("GetOrder", mock.Anything, "A1").Return(order, nil)

		gw := new(gatewayMock)
		gw.On("InitiatePayment", mock.Anything, order, mock.Anything).
			Return(nil, &gateway.GatewayError{Message: "timeout"})

		svc := newTestCheckout(store, gw)
		_, err := svc.Pay(ctx, "A1", payer(), &PayRequest{})

		var gwErr *gateway.GatewayError
		require.ErrorAs(t, err, &gwErr)
		require.Equal(t, "timeout", gwErr.Message)
		store.AssertNotCalled(t, "MarkOrderPaid", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("another user's order is rejected", func(t *testing.T) {
		order := createdOrder()
		store := new(orderStoreMock)
		store.On("GetOrder", mock.Anything, "A1").Return(order, nil)

		gw := new(gatewayMock)

		svc := newTestCheckout(store, gw)
		stranger := &model.User{ID: 7, Name: "Noor"}
		_, err := svc.Pay(ctx, "A1", stranger, &PayRequest{})

		require.ErrorIs(t, err, ErrNotOrderOwner)
		gw.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("already paid order is not paid again", func(t *testing.T) {
		order := createdOrder()
		order.Status = model.OrderStatusPaid
		store := new(orderStoreMock)
		store.On("GetOrder", mock.Anything, "A1").Return(order, nil)

		gw := new(gatewayMock)

		svc := newTestCheckout(store, gw)
		_, err := svc.Pay(ctx, "A1", payer(), &PayRequest{})

		require.ErrorIs(t, err, ErrOrderNotPayable)
		gw.AssertNotCalled(t, "InitiatePayment", mock.Anything, mock.Anything, mock.Anything)
		store.AssertNotCalled(t, "MarkOrderPaid", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCheckoutService_PaymentStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stored status for known transaction", func(t *testing.T) {
		txn := "T999"
		order := createdOrder()
		order.Status = model.OrderStatusPaid
		order.TransactionID = &txn

		store := new(orderStoreMock)
		store.On("GetOrderByTransactionID", mock.Anything, "T999").Return(order, nil)

		svc := newTestCheckout(store, new(gatewayMock))
		result, err := svc.PaymentStatus(ctx, "T999")

		require.NoError(t, err)
		require.Equal(t, "A1", result.OrderNo)
		require.Equal(t, model.OrderStatusPaid, result.Status)
	})

	t.Run("unknown transaction id is not found", func(t *testing.T) {
		store := new(orderStoreMock)
		store.On("GetOrderByTransactionID", mock.Anything, "nope").Return(nil, repository.ErrOrderNotFound)

		svc := newTestCheckout(store, new(gatewayMock))
		_, err := svc.PaymentStatus(ctx, "nope")

		require.ErrorIs(t, err, repository.ErrOrderNotFound)
	})
}
