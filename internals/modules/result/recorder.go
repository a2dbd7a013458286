package result

import (
	"context"
	"errors"

	"uptime-monitor/internals/modules/executor"
	"uptime-monitor/pkg/apperror"
	"uptime-monitor/pkg/redisstore"

	"github.com/guregu/null/v5"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Store interface {
	Record(ctx context.Context, ev executor.ResultEvent) (Recorded, error)
}

type StatusCache interface {
	StoreStatus(ctx context.Context, siteID int64, st redisstore.SiteStatus) error
	Seen(ctx context.Context, messageID string) (bool, error)
	MarkSeen(ctx context.Context, messageID string) error
}

// Recorder persists result events from the result queue.
type Recorder struct {
	store  Store
	cache  StatusCache
	logger *zerolog.Logger
}

func NewRecorder(store Store, cache StatusCache, logger *zerolog.Logger) *Recorder {
	l := logger.With().Str("component", "recorder").Logger()
	return &Recorder{
		store:  store,
		cache:  cache,
		logger: &l,
	}
}

func (r *Recorder) Handle(ctx context.Context, msg amqp091.Delivery) error {
	if msg.MessageId != "" {
		seen, err := r.cache.Seen(ctx, msg.MessageId)
		if err != nil {
			r.logger.Warn().Err(err).Str("message_id", msg.MessageId).Msg("duplicate check unavailable")
		}
		if seen {
			r.logger.Debug().Str("message_id", msg.MessageId).Msg("result already recorded, skipping")
			return nil
		}
	}

	ev, err := Decode(msg.Body)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("message_id", msg.MessageId).
			Bytes("payload", msg.Body).
			Interface("fields", fieldsOf(err)).
			Msg("invalid result event")
		return err
	}

	return r.Record(ctx, msg.MessageId, ev)
}

// Record stores ev atomically, then refreshes the site's status snapshot.
func (r *Recorder) Record(ctx context.Context, messageID string, ev executor.ResultEvent) error {
	if ev.ResponseText.Valid {
		ev.ResponseText = null.StringFrom(executor.Truncate(ev.ResponseText.String, executor.MaxDetailLength))
	}

	rec, err := r.store.Record(ctx, ev)
	if err != nil {
		if apperror.IsKind(err, apperror.NotFound) {
			r.logger.Warn().Int64("site_id", ev.SiteID).Msg("result for a deleted site dropped")
		} else {
			r.logger.Error().Err(err).Int64("site_id", ev.SiteID).Str("message_id", messageID).Msg("result transaction failed")
		}
		return err
	}

	if err := r.cache.StoreStatus(ctx, ev.SiteID, redisstore.SiteStatus{
		ResultCode:   string(ev.ResultCode),
		ResponseTime: ev.ResponseTime,
		CheckedAt:    rec.CreatedAt,
	}); err != nil {
		r.logger.Warn().Err(err).Int64("site_id", ev.SiteID).Msg("failed to store status snapshot")
	}
	if messageID != "" {
		if err := r.cache.MarkSeen(ctx, messageID); err != nil {
			r.logger.Warn().Err(err).Str("message_id", messageID).Msg("failed to mark result as seen")
		}
	}

	r.logger.Debug().
		Int64("site_id", ev.SiteID).
		Int64("history_id", rec.HistoryID).
		Str("result_code", string(ev.ResultCode)).
		Msg("result recorded")
	return nil
}

func fieldsOf(err error) map[string]string {
	var e *apperror.Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}
