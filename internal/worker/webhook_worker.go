package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/insightflow/insightflow-backend/internal/config"
	"github.com/insightflow/insightflow-backend/internal/model"
	"github.com/insightflow/insightflow-backend/internal/repository"
)

// maxDeliveryAttempts bounds how often a failing webhook is retried before
// the job is dropped.
const maxDeliveryAttempts = 5

// WebhookWorker consumes the webhook delivery queue and POSTs accepted
// responses to each questionnaire's configured webhook URL. The URL is
// resolved at delivery time, so edits between submission and delivery
// take effect.
type WebhookWorker struct {
	questionnaires *repository.QuestionnaireRepository
	responses      *repository.ResponseRepository
	rdb            *redis.Client
	client         *http.Client
	log            zerolog.Logger
}

// NewWebhookWorker creates a new WebhookWorker.
func NewWebhookWorker(
	questionnaires *repository.QuestionnaireRepository,
	responses *repository.ResponseRepository,
	rdb *redis.Client,
	cfg *config.Config,
	log zerolog.Logger,
) *WebhookWorker {
	return &WebhookWorker{
		questionnaires: questionnaires,
		responses:      responses,
		rdb:            rdb,
		client:         &http.Client{Timeout: cfg.WebhookTimeout},
		log:            log.With().Str("component", "webhook_worker").Logger(),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *WebhookWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *WebhookWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WebhookQueue).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var job model.WebhookJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error")
		return
	}

	if err := w.deliver(ctx, &job); err != nil {
		job.Attempt++
		if job.Attempt >= maxDeliveryAttempts {
			w.log.Error().Err(err).
				Str("questionnaire_id", job.QuestionnaireID.String()).
				Str("response_id", job.ResponseID.String()).
				Msg("Webhook delivery abandoned after max attempts")
			return
		}

		w.log.Warn().Err(err).
			Str("questionnaire_id", job.QuestionnaireID.String()).
			Int("attempt", job.Attempt).
			Msg("Webhook delivery failed, re-queueing")
		if raw, err := json.Marshal(job); err == nil {
			w.rdb.RPush(ctx, config.WebhookQueue, raw)
		}
		time.Sleep(5 * time.Second)
	}
}

func (w *WebhookWorker) deliver(ctx context.Context, job *model.WebhookJob) error {
	q, err := w.questionnaires.GetByID(ctx, job.QuestionnaireID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Questionnaire deleted since submission; nothing to deliver.
			return nil
		}
		return fmt.Errorf("load questionnaire: %w", err)
	}
	if q.Settings == nil || q.Settings.WebhookURL == "" {
		return nil
	}

	resp, err := w.responses.GetByID(ctx, job.ResponseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("load response: %w", err)
	}

	payload := model.WebhookPayload{
		Event:    "response.received",
		Response: resp,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.Settings.WebhookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "InsightFlow-Webhook/1.0")

	httpResp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("webhook status %d", httpResp.StatusCode)
	}
	return nil
}

// drain processes all remaining items in the queue before shutdown.
func (w *WebhookWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WebhookQueue).Result()
		if err != nil {
			break
		}

		var job model.WebhookJob
		if err := json.Unmarshal([]byte(result), &job); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.deliver(ctx, &job); err != nil {
			w.log.Error().Err(err).Msg("Drain delivery error")
			w.rdb.RPush(ctx, config.WebhookQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining items")
	}
}
