package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureVerifier checks checkout signatures of the form
// hex(HMAC-SHA256(orderID + "|" + paymentID, secret)).
type SignatureVerifier struct {
	secret []byte
}

func NewSignatureVerifier(secret string) *SignatureVerifier {
	return &SignatureVerifier{secret: []byte(secret)}
}

func (v *SignatureVerifier) Sign(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify returns ErrSignatureMismatch unless signature matches.
func (v *SignatureVerifier) Verify(orderID, paymentID, signature string) error {
	expected := v.Sign(orderID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
