package eventpublisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/iho/finbook/internal/domain"
	"github.com/iho/finbook/internal/infrastructure/metrics"
	"github.com/iho/finbook/internal/usecase"
)

// EventPublisher drains the outbox and hands pending change records to an
// external publisher.
type EventPublisher struct {
	outboxRepo usecase.OutboxRepository
	publisher  Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	batchSize  int
	interval   time.Duration
}

// Publisher defines the interface for publishing change records to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     *slog.Logger
	Metrics    *metrics.Metrics // optional
	BatchSize  int              // Number of records to fetch per batch
	Interval   time.Duration    // Polling interval
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &EventPublisher{
		outboxRepo: cfg.OutboxRepo,
		publisher:  cfg.Publisher,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
	}
}

// Start begins the publishing worker.
// It runs continuously until the context is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info("outbox publisher started",
		slog.Int("batch_size", ep.batchSize),
		slog.Duration("interval", ep.interval))

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	if err := ep.processBatch(ctx); err != nil {
		ep.logger.Error("error processing outbox on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info("outbox publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processBatch(ctx); err != nil {
				ep.logger.Error("error processing outbox", slog.String("error", err.Error()))
			}
		}
	}
}

// processBatch fetches and publishes a batch of unpublished records.
func (ep *EventPublisher) processBatch(ctx context.Context) error {
	records, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if ep.metrics != nil {
		ep.metrics.OutboxPending.Set(float64(len(records)))
	}

	if len(records) == 0 {
		return nil
	}

	ep.logger.Info("processing outbox records", slog.Int("count", len(records)))

	for _, record := range records {
		if err := ep.publishRecord(ctx, record); err != nil {
			ep.logger.Error("failed to publish record",
				slog.String("record_id", record.ID),
				slog.String("change_type", record.ChangeType),
				slog.String("error", err.Error()))
			// Continue processing other records even if one fails
			continue
		}

		// Mark as published
		if err := ep.outboxRepo.MarkPublished(ctx, record.ID, time.Now()); err != nil {
			ep.logger.Error("failed to mark record as published",
				slog.String("record_id", record.ID),
				slog.String("error", err.Error()))
			// Don't continue - we don't want to re-publish this record
		} else if ep.metrics != nil {
			ep.metrics.OutboxPublished.Inc()
		}
	}

	return nil
}

// publishRecord publishes a single record.
func (ep *EventPublisher) publishRecord(ctx context.Context, record *domain.OutboxEvent) error {
	ep.logger.Debug("publishing record",
		slog.String("record_id", record.ID),
		slog.String("change_type", record.ChangeType),
		slog.String("aggregate_type", record.AggregateType),
		slog.String("aggregate_id", record.AggregateID))

	if err := ep.publisher.Publish(ctx, record); err != nil {
		return err
	}

	ep.logger.Info("record published",
		slog.String("record_id", record.ID),
		slog.String("change_type", record.ChangeType))

	return nil
}

// LogPublisher is a simple publisher that logs records.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the record.
func (p *LogPublisher) Publish(ctx context.Context, record *domain.OutboxEvent) error {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("CHANGE PUBLISHED",
		slog.String("record_id", record.ID),
		slog.String("change_type", record.ChangeType),
		slog.String("aggregate_type", record.AggregateType),
		slog.String("aggregate_id", record.AggregateID),
		slog.String("payload", string(payload)))

	return nil
}
