package cache

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	fieldID        = "id"
	fieldCodeHash  = "code_hash"
	fieldPurpose   = "purpose"
	fieldAttempts  = "attempts"
	fieldExpiresAt = "expires_at"
	fieldCreatedAt = "created_at"
	fieldUpdatedAt = "updated_at"
)

// incrementScript bumps attempts only while the key still holds the given record.
var incrementScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'id') ~= ARGV[1] then
	return -1
end
redis.call('HSET', KEYS[1], 'updated_at', ARGV[2])
return redis.call('HINCRBY', KEYS[1], 'attempts', 1)
`)

var deleteScript = redis.NewScript(`
if redis.call('HGET', KEYS[1], 'id') ~= ARGV[1] then
	return 0
end
return redis.call('DEL', KEYS[1])
`)

// Cache keeps one hash per (channel, identifier) and lets Redis expire it.
type Cache struct {
	client redis.UniversalClient
	ins    instrument.Instrumentation
}

func NewCache(client redis.UniversalClient, ins instrument.Instrumentation) *Cache {
	return &Cache{client: client, ins: ins}
}

func recordKey(identifier string, ch entity.Channel) string {
	return "otp:" + ch.String() + ":" + identifier
}

func cooldownKey(identifier string, ch entity.Channel) string {
	return "otp:cooldown:" + ch.String() + ":" + identifier
}

func (c *Cache) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return c.ins.Tracer("otp.outbound.cache").Start(ctx, name)
}

func (c *Cache) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (c *Cache) ReplaceRecord(ctx context.Context, rec entity.Record) (err error) {
	ctx, span := c.startSpan(ctx, "ReplaceRecord")
	defer func() { c.endSpan(span, err) }()

	key := recordKey(rec.Identifier, rec.Channel)

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, map[string]any{
			fieldID:        strconv.FormatInt(rec.ID, 10),
			fieldCodeHash:  rec.CodeHash,
			fieldPurpose:   rec.Purpose.String(),
			fieldAttempts:  rec.Attempts,
			fieldExpiresAt: rec.ExpiresAt.UnixMilli(),
			fieldCreatedAt: rec.CreatedAt.UnixMilli(),
			fieldUpdatedAt: rec.UpdatedAt.UnixMilli(),
		})
		pipe.PExpireAt(ctx, key, rec.ExpiresAt)
		return nil
	})
	return err
}

func (c *Cache) FindActiveRecord(ctx context.Context, identifier string, ch entity.Channel, now time.Time) (_ *entity.Record, err error) {
	ctx, span := c.startSpan(ctx, "FindActiveRecord")
	defer func() { c.endSpan(span, err) }()

	values, err := c.client.HGetAll(ctx, recordKey(identifier, ch)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, goerror.ErrNotFound
	}

	rec, err := parseRecord(identifier, ch, values)
	if err != nil {
		return nil, err
	}
	if !rec.Active(now) {
		return nil, goerror.ErrNotFound
	}

	return rec, nil
}

func (c *Cache) IncrementAttempts(ctx context.Context, rec entity.Record, now time.Time) (err error) {
	ctx, span := c.startSpan(ctx, "IncrementAttempts")
	defer func() { c.endSpan(span, err) }()

	n, err := incrementScript.Run(ctx, c.client,
		[]string{recordKey(rec.Identifier, rec.Channel)},
		strconv.FormatInt(rec.ID, 10), now.UnixMilli(),
	).Int64()
	if err != nil {
		return err
	}
	if n < 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (c *Cache) DeleteRecord(ctx context.Context, rec entity.Record) (err error) {
	ctx, span := c.startSpan(ctx, "DeleteRecord")
	defer func() { c.endSpan(span, err) }()

	n, err := deleteScript.Run(ctx, c.client,
		[]string{recordKey(rec.Identifier, rec.Channel)},
		strconv.FormatInt(rec.ID, 10),
	).Int64()
	if err != nil {
		return err
	}
	if n == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

// DeleteExpired is a no-op; keys carry their own expiry.
func (c *Cache) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// AcquireCooldown claims the resend window for the pair. It reports false
// while a previous window is still open.
func (c *Cache) AcquireCooldown(ctx context.Context, identifier string, ch entity.Channel, ttl time.Duration) (_ bool, err error) {
	ctx, span := c.startSpan(ctx, "AcquireCooldown")
	defer func() { c.endSpan(span, err) }()

	return c.client.SetNX(ctx, cooldownKey(identifier, ch), 1, ttl).Result()
}

// ReleaseCooldown clears the resend window for the pair.
func (c *Cache) ReleaseCooldown(ctx context.Context, identifier string, ch entity.Channel) (err error) {
	ctx, span := c.startSpan(ctx, "ReleaseCooldown")
	defer func() { c.endSpan(span, err) }()

	return c.client.Del(ctx, cooldownKey(identifier, ch)).Err()
}

func parseRecord(identifier string, ch entity.Channel, values map[string]string) (*entity.Record, error) {
	id, err := strconv.ParseInt(values[fieldID], 10, 64)
	if err != nil {
		return nil, err
	}
	attempts, err := strconv.Atoi(values[fieldAttempts])
	if err != nil {
		return nil, err
	}

	millis := make(map[string]int64, 3)
	for _, f := range []string{fieldExpiresAt, fieldCreatedAt, fieldUpdatedAt} {
		ms, err := strconv.ParseInt(values[f], 10, 64)
		if err != nil {
			return nil, err
		}
		millis[f] = ms
	}

	return &entity.Record{
		ID:         id,
		Identifier: identifier,
		Channel:    ch,
		Purpose:    entity.Purpose(values[fieldPurpose]),
		CodeHash:   values[fieldCodeHash],
		Attempts:   attempts,
		ExpiresAt:  time.UnixMilli(millis[fieldExpiresAt]),
		CreatedAt:  time.UnixMilli(millis[fieldCreatedAt]),
		UpdatedAt:  time.UnixMilli(millis[fieldUpdatedAt]),
	}, nil
}
