package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// HMACSignatureService signs operator requests and webhook bodies with
// HMAC-SHA256. Signatures travel as hex.
type HMACSignatureService struct{}

func NewHMACSignatureService() *HMACSignatureService {
	return &HMACSignatureService{}
}

func (s *HMACSignatureService) Sign(secretKey string, payload string) string {
	return hex.EncodeToString(s.mac(secretKey, payload))
}

// Verify accepts upper or lower case hex and compares in constant time.
func (s *HMACSignatureService) Verify(secretKey string, payload string, signature string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) != sha256.Size {
		return false
	}
	return hmac.Equal(s.mac(secretKey, payload), got)
}

// BuildCanonicalString joins the request parts with newlines. The body is
// reduced to its hex SHA-256 so the signed payload stays small.
//
//	METHOD
//	PATH
//	TIMESTAMP
//	NONCE
//	hex(sha256(BODY))
func (s *HMACSignatureService) BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string {
	digest := sha256.Sum256([]byte(body))
	return strings.Join([]string{
		strings.ToUpper(method),
		path,
		strconv.FormatInt(timestamp, 10),
		nonce,
		hex.EncodeToString(digest[:]),
	}, "\n")
}

func (s *HMACSignatureService) mac(secretKey, payload string) []byte {
	m := hmac.New(sha256.New, []byte(secretKey))
	m.Write([]byte(payload))
	return m.Sum(nil)
}
