package dangerwords

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RedisLedger stores each user's counts in a Redis hash so several API
// replicas share one ledger.
type RedisLedger struct {
	redis  *redis.Client
	tracer trace.Tracer
	prefix string
}

// NewRedisLedger builds a Redis-backed ledger.
func NewRedisLedger(client *redis.Client, tracer trace.Tracer) *RedisLedger {
	if client == nil {
		panic("dangerwords: redis client cannot be nil")
	}
	if tracer == nil {
		tracer = otel.Tracer("mindmate.internal.dangerwords")
	}
	return &RedisLedger{redis: client, tracer: tracer, prefix: "danger_words"}
}

func (l *RedisLedger) key(userID string) string {
	return fmt.Sprintf("%s:%s", l.prefix, userID)
}

// Ingest applies the increments and reads back the hash inside one MULTI/EXEC,
// so the returned report reflects exactly this update.
func (l *RedisLedger) Ingest(ctx context.Context, userID, text string) (IngestResult, error) {
	userID, err := validUser(userID)
	if err != nil {
		return IngestResult{}, err
	}
	ctx, span := l.tracer.Start(ctx, "dangerwords.ingest")
	defer span.End()

	detected := Tally(text)
	span.SetAttributes(attribute.Int("mindmate.dangerwords.detected", sum(detected)))
	if len(detected) == 0 {
		report, err := l.Report(ctx, userID)
		return IngestResult{Detected: detected, Report: report}, err
	}

	key := l.key(userID)
	var all *redis.MapStringStringCmd
	_, err = l.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for word, n := range detected {
			pipe.HIncrBy(ctx, key, word, int64(n))
		}
		all = pipe.HGetAll(ctx, key)
		return nil
	})
	if err != nil {
		span.RecordError(err)
		return IngestResult{}, fmt.Errorf("dangerwords: failed to update ledger: %w", err)
	}

	counts, err := decodeCounts(all.Val())
	if err != nil {
		span.RecordError(err)
		return IngestResult{}, err
	}
	return IngestResult{Detected: detected, Report: NewReport(counts)}, nil
}

// Report reads the user's hash.
func (l *RedisLedger) Report(ctx context.Context, userID string) (Report, error) {
	userID, err := validUser(userID)
	if err != nil {
		return Report{}, err
	}
	ctx, span := l.tracer.Start(ctx, "dangerwords.report")
	defer span.End()

	raw, err := l.redis.HGetAll(ctx, l.key(userID)).Result()
	if err != nil {
		span.RecordError(err)
		return Report{}, fmt.Errorf("dangerwords: failed to load ledger: %w", err)
	}
	counts, err := decodeCounts(raw)
	if err != nil {
		span.RecordError(err)
		return Report{}, err
	}
	return NewReport(counts), nil
}

// Reset deletes the user's hash.
func (l *RedisLedger) Reset(ctx context.Context, userID string) error {
	userID, err := validUser(userID)
	if err != nil {
		return err
	}
	ctx, span := l.tracer.Start(ctx, "dangerwords.reset")
	defer span.End()

	if err := l.redis.Del(ctx, l.key(userID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("dangerwords: failed to reset ledger: %w", err)
	}
	return nil
}

func decodeCounts(raw map[string]string) (map[string]int, error) {
	counts := make(map[string]int, len(raw))
	for word, v := range raw {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("dangerwords: corrupt count for %q: %w", word, err)
		}
		counts[word] = n
	}
	return counts, nil
}

var _ Ledger = (*RedisLedger)(nil)
