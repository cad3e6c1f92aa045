package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"vault-dashboard/internal/core/domain"
	"vault-dashboard/internal/core/ports"
	"vault-dashboard/pkg/metrics"
	"vault-dashboard/pkg/retrier"
	"vault-dashboard/pkg/safe"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	HeaderVaultSignature = "X-Vault-Signature"
	HeaderVaultEvent     = "X-Vault-Event"
)

// NotifierConfig configures webhook delivery of vault events.
type NotifierConfig struct {
	URL           string
	Secret        string
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
}

// NotificationPayload is the JSON body POSTed to the webhook.
type NotificationPayload struct {
	EventID    string                `json:"event_id"`
	Kind       domain.VaultEventKind `json:"kind"`
	VaultName  string                `json:"vault_name"`
	BatchIndex uint64                `json:"batch_index"`
	SharePrice *string               `json:"share_price,omitempty"`
	Signature  string                `json:"tx_signature,omitempty"`
	Timestamp  int64                 `json:"timestamp"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// notifierService implements ports.Notifier.
type notifierService struct {
	cfg        NotifierConfig
	vaultName  string
	repo       ports.NotificationRepository
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	metrics    *metrics.Registry
	log        zerolog.Logger
}

// NewNotifier creates a new webhook notifier. With an empty URL every
// event is skipped.
func NewNotifier(
	cfg NotifierConfig,
	vaultName string,
	repo ports.NotificationRepository,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	m *metrics.Registry,
	log zerolog.Logger,
) ports.Notifier {
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 15 * time.Second
	}
	return &notifierService{
		cfg:        cfg,
		vaultName:  vaultName,
		repo:       repo,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		metrics:    m,
		log:        log,
	}
}

// Notify journals the delivery and sends it asynchronously with retries.
func (s *notifierService) Notify(ctx context.Context, event domain.VaultEvent) error {
	if s.cfg.URL == "" {
		s.log.Debug().Str("event", string(event.Kind)).Msg("webhook: no webhook URL configured, skipping")
		return nil
	}

	payload := NotificationPayload{
		EventID:    uuid.NewString(),
		Kind:       event.Kind,
		VaultName:  s.vaultName,
		BatchIndex: event.BatchIndex,
		Signature:  event.Signature,
		Timestamp:  event.Timestamp.Unix(),
	}
	if event.SharePrice != nil {
		price := event.SharePrice.String()
		payload.SharePrice = &price
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	now := time.Now().UTC()
	delivery := &domain.NotificationDelivery{
		ID:         uuid.New(),
		EventKind:  event.Kind,
		BatchIndex: event.BatchIndex,
		WebhookURL: s.cfg.URL,
		Payload:    string(body),
		Status:     domain.NotificationStatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, delivery); err != nil {
		s.log.Error().Err(err).Str("event", string(event.Kind)).Msg("webhook: failed to journal delivery")
		return err
	}

	deliverCtx := context.WithoutCancel(ctx)
	safe.Go(s.log, "webhook-delivery", func() {
		s.deliver(deliverCtx, delivery, body)
	})
	return nil
}

// deliver POSTs body until a 2xx, a permanent rejection, or retries run out.
// Every attempt updates the delivery record.
func (s *notifierService) deliver(ctx context.Context, delivery *domain.NotificationDelivery, body []byte) {
	signature := s.sigSvc.Sign(s.cfg.Secret, string(body))

	r := retrier.New(
		retrier.WithInitialInterval(s.cfg.RetryInterval),
		retrier.WithMaxInterval(10*time.Minute),
		retrier.WithMaxRetries(s.cfg.MaxRetries),
	)

	err := r.Do(ctx, func(ctx context.Context) error {
		delivery.Attempt++
		status, err := s.post(ctx, body, signature, delivery.EventKind)
		delivery.UpdatedAt = time.Now().UTC()
		if status != 0 {
			delivery.HTTPStatus = &status
		}
		if err != nil {
			msg := err.Error()
			delivery.LastError = &msg
			s.log.Warn().Err(err).
				Str("delivery_id", delivery.ID.String()).
				Int("attempt", delivery.Attempt).
				Msg("webhook: delivery failed")
			s.persist(ctx, delivery)
			if status >= 400 && status < 500 && status != http.StatusTooManyRequests {
				return retrier.Permanent(err)
			}
			return err
		}
		return nil
	})

	if err != nil {
		delivery.Status = domain.NotificationStatusFailed
		s.metrics.RecordWebhook("failed")
		s.log.Error().Str("delivery_id", delivery.ID.String()).Int("attempts", delivery.Attempt).Msg("webhook: all retry attempts exhausted")
	} else {
		delivery.Status = domain.NotificationStatusDelivered
		delivery.LastError = nil
		s.metrics.RecordWebhook("delivered")
		s.log.Info().Str("delivery_id", delivery.ID.String()).Int("attempt", delivery.Attempt).Msg("webhook: delivered successfully")
	}
	s.persist(ctx, delivery)
}

func (s *notifierService) post(ctx context.Context, body []byte, signature string, kind domain.VaultEventKind) (int, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return 0, retrier.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderVaultSignature, signature)
	req.Header.Set(HeaderVaultEvent, string(kind))

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp.StatusCode, nil
	}
	return resp.StatusCode, fmt.Errorf("webhook responded %d", resp.StatusCode)
}

func (s *notifierService) persist(ctx context.Context, delivery *domain.NotificationDelivery) {
	if err := s.repo.Update(ctx, delivery); err != nil {
		s.log.Warn().Err(err).Str("delivery_id", delivery.ID.String()).Msg("webhook: failed to update delivery record")
	}
}
