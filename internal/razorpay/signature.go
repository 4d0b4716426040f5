package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PaymentSignature is the signature Razorpay Checkout returns for a
// successful payment: hex(HMAC-SHA256(keySecret, orderID + "|" + paymentID)).
func PaymentSignature(keySecret, orderID, paymentID string) string {
	return sign([]byte(keySecret), []byte(orderID+"|"+paymentID))
}

// WebhookSignature is the X-Razorpay-Signature value for a raw webhook body.
func WebhookSignature(webhookSecret string, body []byte) string {
	return sign([]byte(webhookSecret), body)
}

// VerifyPaymentSignature compares the client-supplied signature with the
// expected one in constant time.
func VerifyPaymentSignature(keySecret, orderID, paymentID, signature string) bool {
	if keySecret == "" || signature == "" {
		return false
	}
	expected := PaymentSignature(keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

// VerifyWebhookSignature checks the signature header against the exact bytes
// received.
func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) bool {
	if webhookSecret == "" || signature == "" {
		return false
	}
	expected := WebhookSignature(webhookSecret, body)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

func sign(secret, message []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}
