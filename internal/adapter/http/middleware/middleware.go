package middleware

import (
	"bytes"
	"crypto/subtle"
	"io"
	"net/http"
	"strconv"
	"time"

	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/apperror"
	"vault-dashboard/pkg/metrics"
	"vault-dashboard/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderAccessKey = "X-Operator-Access-Key"
	HeaderSignature = "X-Signature"
	HeaderTimestamp = "X-Timestamp"
	HeaderNonce     = "X-Nonce"

	HeaderRequestID = "X-Request-ID"

	defaultClockSkew = 60 * time.Second
	defaultNonceTTL  = 120 * time.Second

	CtxAccessKey = "access_key"
	CtxWallet    = "wallet"
)

// OperatorCredentials is the single key pair allowed to call mutating routes.
type OperatorCredentials struct {
	AccessKey    string
	SecretKey    string
	MaxClockSkew time.Duration
	NonceTTL     time.Duration
}

// HMACAuth guards operator routes. A request passes when its timestamp is
// within the allowed skew, the access key matches, the signature covers
// method, path, timestamp, nonce and body, and the nonce is fresh.
func HMACAuth(
	creds OperatorCredentials,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) gin.HandlerFunc {
	skew := int64(defaultClockSkew / time.Second)
	if creds.MaxClockSkew > 0 {
		skew = int64(creds.MaxClockSkew / time.Second)
	}
	nonceTTL := defaultNonceTTL
	if creds.NonceTTL > 0 {
		nonceTTL = creds.NonceTTL
	}
	expected := []byte(creds.AccessKey)

	return func(c *gin.Context) {
		if err := authenticate(c, creds.SecretKey, expected, skew, nonceTTL, sigSvc, nonceStore, log); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func authenticate(
	c *gin.Context,
	secret string,
	expectedKey []byte,
	skew int64,
	nonceTTL time.Duration,
	sigSvc ports.SignatureService,
	nonceStore ports.NonceStore,
	log zerolog.Logger,
) *apperror.AppError {
	accessKey := c.GetHeader(HeaderAccessKey)
	signature := c.GetHeader(HeaderSignature)
	rawTS := c.GetHeader(HeaderTimestamp)
	nonce := c.GetHeader(HeaderNonce)
	if accessKey == "" || signature == "" || rawTS == "" || nonce == "" {
		return apperror.ErrInvalidAccessKey()
	}

	ts, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil || !withinSkew(time.Now().Unix(), ts, skew) {
		return apperror.ErrTimestampExpired()
	}

	if len(expectedKey) == 0 || subtle.ConstantTimeCompare([]byte(accessKey), expectedKey) != 1 {
		return apperror.ErrInvalidAccessKey()
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return apperror.Validation("cannot read request body")
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	canonical := sigSvc.BuildCanonicalString(c.Request.Method, c.Request.URL.Path, ts, nonce, string(body))
	if !sigSvc.Verify(secret, canonical, signature) {
		return apperror.ErrInvalidSignature()
	}

	// Only correctly signed requests claim a nonce.
	fresh, err := nonceStore.CheckAndSet(c.Request.Context(), accessKey, nonce, nonceTTL)
	switch {
	case err != nil:
		// Replay protection degrades rather than locking the operator out.
		log.Warn().Err(err).Msg("nonce store unavailable, skipping replay check")
	case !fresh:
		return apperror.ErrNonceUsed()
	}

	c.Set(CtxAccessKey, accessKey)
	return nil
}

func withinSkew(now, ts, skew int64) bool {
	d := now - ts
	return d <= skew && d >= -skew
}

// RequestID assigns every request an ID, reusing a well-formed client one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
		}
		c.Set(response.RequestIDKey, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger creates a middleware that logs every HTTP request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		event := log.Info()
		if status >= http.StatusInternalServerError {
			event = log.Error()
		} else if status >= http.StatusBadRequest {
			event = log.Warn()
		}

		event.
			Str("request_id", c.GetString(response.RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", latency).
			Str("client_ip", c.ClientIP()).
			Msg("http request")
	}
}

// Recovery creates a panic recovery middleware.
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Str("path", c.Request.URL.Path).Msg("panic recovered")
				response.Error(c, apperror.New("SYS_001", "Internal server error", http.StatusInternalServerError))
				c.Abort()
			}
		}()
		c.Next()
	}
}

// Metrics observes request latency by route template.
func Metrics(m *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}
