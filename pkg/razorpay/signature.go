package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PaymentSignature is hex(HMAC-SHA256(keySecret, orderID + "|" + paymentID)),
// the value checkout hands back to the browser after a successful payment.
func PaymentSignature(keySecret, orderID, paymentID string) string {
	return sign([]byte(keySecret), []byte(orderID+"|"+paymentID))
}

func VerifyPaymentSignature(keySecret, orderID, paymentID, signature string) bool {
	if keySecret == "" || orderID == "" || paymentID == "" {
		return false
	}
	return verify([]byte(keySecret), []byte(orderID+"|"+paymentID), signature)
}

// WebhookSignature is hex(HMAC-SHA256(webhookSecret, rawBody)).
func WebhookSignature(webhookSecret string, body []byte) string {
	return sign([]byte(webhookSecret), body)
}

func VerifyWebhookSignature(webhookSecret string, body []byte, signature string) bool {
	if webhookSecret == "" {
		return false
	}
	return verify([]byte(webhookSecret), body, signature)
}

func sign(secret, message []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

func verify(secret, message []byte, signature string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" {
		return false
	}

	decoded, err := hex.DecodeString(strings.ToLower(sig))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(message)
	return hmac.Equal(mac.Sum(nil), decoded)
}
