package dto

import (
	"fmt"
	"regexp"

	"github.com/gagliardetto/solana-go"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	safeStringRe = regexp.MustCompile(`^[a-zA-Z0-9_\-\.]+$`)
	// Plain notation only. Exponent forms would let a short query expand into
	// an arbitrarily large integer during division and scaling.
	amountRe = regexp.MustCompile(`^-?\d{1,20}(\.\d{1,18})?$`)
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("safe_id", validateSafeID)
		_ = v.RegisterValidation("decimal_amount", validateDecimalAmount)
		_ = v.RegisterValidation("solana_address", validateAddress)
	}
}

// validateSafeID allows alphanumeric, underscore, dash, and dot.
func validateSafeID(fl validator.FieldLevel) bool {
	return safeStringRe.MatchString(fl.Field().String())
}

// validateDecimalAmount accepts a plain decimal string. Sign and range are
// checked by the vault rules so they report their own error codes.
func validateDecimalAmount(fl validator.FieldLevel) bool {
	_, err := ParseAmount(fl.Field().String())
	return err == nil
}

func validateAddress(fl validator.FieldLevel) bool {
	return IsAddress(fl.Field().String())
}

// ParseAmount parses a decimal amount as sent by clients: up to 20 integer
// and 18 fractional digits, no exponent.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !amountRe.MatchString(s) {
		return decimal.Decimal{}, fmt.Errorf("amount %q is not a plain decimal", s)
	}
	return decimal.NewFromString(s)
}

// IsAddress reports whether s is a base58 encoded 32-byte public key.
func IsAddress(s string) bool {
	if s == "" {
		return false
	}
	_, err := solana.PublicKeyFromBase58(s)
	return err == nil
}
