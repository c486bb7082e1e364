package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/dujiao-next/storefront/internal/constants"
	"github.com/dujiao-next/storefront/internal/models"
	"github.com/dujiao-next/storefront/internal/payment/razorpay"

	"github.com/shopspring/decimal"
)

func placeRazorpayOrder(t *testing.T, f *storefrontFixture, email string) (*models.User, *models.Order) {
	t.Helper()
	user := createTestUser(t, f.db, email)
	fillCart(t, f, user.ID)
	result, err := f.orders.PlaceOrder(context.Background(), PlaceOrderInput{UserID: user.ID, PaymentMethod: "razorpay"})
	if err != nil {
		t.Fatalf("place order failed: %v", err)
	}
	return user, result.Order
}

func paymentSignature(orderID, paymentID string) string {
	return razorpay.ComputeSignature(testKeySecret, []byte(orderID+"|"+paymentID))
}

func capturedWebhook(orderID, paymentID string) []byte {
	return []byte(fmt.Sprintf(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":%q,"order_id":%q,"amount":110000,"currency":"INR","status":"captured"}}}}`, paymentID, orderID))
}

func TestVerifyPaymentMarksOrderPaid(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user, order := placeRazorpayOrder(t, f, "pay-verify@example.com")

	paid, err := f.payments.VerifyPayment(ctx, VerifyPaymentInput{
		UserID:            user.ID,
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		Signature:         paymentSignature(order.RazorpayOrderID, "pay_123"),
	})
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if paid.PaymentStatus != constants.PaymentStatusPaid || paid.RazorpayPaymentID != "pay_123" {
		t.Fatalf("unexpected order after verify: %+v", paid)
	}

	stored, err := f.orders.Detail(user.ID, order.ID)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if stored.PaymentStatus != constants.PaymentStatusPaid || stored.PaidAt == nil {
		t.Fatalf("expected persisted paid status, got %s", stored.PaymentStatus)
	}
}

func TestVerifyPaymentForgedSignatureWritesNothing(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user, order := placeRazorpayOrder(t, f, "pay-forged@example.com")

	_, err := f.payments.VerifyPayment(ctx, VerifyPaymentInput{
		UserID:            user.ID,
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: "pay_123",
		Signature:         paymentSignature(order.RazorpayOrderID, "pay_other"),
	})
	if !errors.Is(err, ErrPaymentSignatureInvalid) {
		t.Fatalf("expected ErrPaymentSignatureInvalid, got %v", err)
	}
	stored, err := f.orders.Detail(user.ID, order.ID)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if stored.PaymentStatus != constants.PaymentStatusPending || stored.RazorpayPaymentID != "" {
		t.Fatalf("forged signature must not change the order, got %+v", stored)
	}
}

func TestVerifyPaymentRejectsForeignOrder(t *testing.T) {
	f := newStorefrontFixture(t)
	_, order := placeRazorpayOrder(t, f, "pay-owner@example.com")
	stranger := createTestUser(t, f.db, "pay-stranger@example.com")

	_, err := f.payments.VerifyPayment(context.Background(), VerifyPaymentInput{
		UserID:            stranger.ID,
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: "pay_1",
		Signature:         paymentSignature(order.RazorpayOrderID, "pay_1"),
	})
	if !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestHandleWebhookCapturedIsIdempotent(t *testing.T) {
	f := newStorefrontFixture(t)
	ctx := context.Background()
	user, order := placeRazorpayOrder(t, f, "pay-webhook@example.com")
	body := capturedWebhook(order.RazorpayOrderID, "pay_wh")
	signature := razorpay.ComputeSignature(testWebhookSecret, body)

	result, err := f.payments.HandleWebhook(ctx, body, signature)
	if err != nil {
		t.Fatalf("webhook failed: %v", err)
	}
	if !result.Handled || result.OrderID != order.ID {
		t.Fatalf("unexpected webhook result: %+v", result)
	}

	result, err = f.payments.HandleWebhook(ctx, body, signature)
	if err != nil {
		t.Fatalf("replayed webhook failed: %v", err)
	}
	if !result.Handled {
		t.Fatalf("replayed webhook should still be acknowledged")
	}
	stored, err := f.orders.Detail(user.ID, order.ID)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if stored.PaymentStatus != constants.PaymentStatusPaid || stored.RazorpayPaymentID != "pay_wh" {
		t.Fatalf("unexpected stored order: %+v", stored)
	}
}

func TestHandleWebhookRejectsBadSignature(t *testing.T) {
	f := newStorefrontFixture(t)
	user, order := placeRazorpayOrder(t, f, "pay-webhook-bad@example.com")
	body := capturedWebhook(order.RazorpayOrderID, "pay_wh")

	_, err := f.payments.HandleWebhook(context.Background(), body, razorpay.ComputeSignature("wrong", body))
	if !errors.Is(err, ErrWebhookSignatureInvalid) {
		t.Fatalf("expected ErrWebhookSignatureInvalid, got %v", err)
	}
	_, err = f.payments.HandleWebhook(context.Background(), body, "")
	if !errors.Is(err, ErrWebhookSignatureInvalid) {
		t.Fatalf("expected ErrWebhookSignatureInvalid for missing header, got %v", err)
	}
	stored, err := f.orders.Detail(user.ID, order.ID)
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if stored.PaymentStatus != constants.PaymentStatusPending {
		t.Fatalf("bad signature must not change the order")
	}
}

func TestHandleWebhookIgnoresOtherEvents(t *testing.T) {
	f := newStorefrontFixture(t)
	body := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_x","order_id":"order_x"}}}}`)
	result, err := f.payments.HandleWebhook(context.Background(), body, razorpay.ComputeSignature(testWebhookSecret, body))
	if err != nil {
		t.Fatalf("webhook failed: %v", err)
	}
	if result.Handled || result.Event != "payment.failed" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestHandleWebhookUnknownOrderAcknowledged(t *testing.T) {
	f := newStorefrontFixture(t)
	body := capturedWebhook("order_missing", "pay_missing")
	result, err := f.payments.HandleWebhook(context.Background(), body, razorpay.ComputeSignature(testWebhookSecret, body))
	if err != nil {
		t.Fatalf("webhook failed: %v", err)
	}
	if result.Handled {
		t.Fatalf("unknown order must not be reported as handled")
	}
}

func TestRefundGatewayPaymentConvertsToMinorUnits(t *testing.T) {
	f := newStorefrontFixture(t)
	refund, err := f.payments.RefundGatewayPayment(context.Background(), "pay_1", decimal.RequireFromString("12.34"))
	if err != nil {
		t.Fatalf("refund failed: %v", err)
	}
	if refund.Amount != 1234 || len(f.gateway.refunds) != 1 {
		t.Fatalf("expected 1234 minor units, got %d", refund.Amount)
	}
	if _, err := f.payments.RefundGatewayPayment(context.Background(), "pay_1", decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative amount, got %v", err)
	}
}
