package db

import (
	"context"
	"time"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/goerror"
)

const (
	queryUpsertRecord = `INSERT INTO otp_records
	(id, identifier, channel, purpose, code_hash, attempts, expires_at, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT ON CONSTRAINT otp_records_identifier_channel_key DO UPDATE SET
		id = EXCLUDED.id,
		purpose = EXCLUDED.purpose,
		code_hash = EXCLUDED.code_hash,
		attempts = EXCLUDED.attempts,
		expires_at = EXCLUDED.expires_at,
		created_at = EXCLUDED.created_at,
		updated_at = EXCLUDED.updated_at`

	queryFindActiveRecord = `SELECT id, identifier, channel, purpose, code_hash, attempts, expires_at, created_at, updated_at
	FROM otp_records
	WHERE identifier = $1 AND channel = $2 AND expires_at > $3
	LIMIT 1`

	queryIncrementAttempts = `UPDATE otp_records SET attempts = attempts + 1, updated_at = $2 WHERE id = $1`

	queryDeleteRecord = `DELETE FROM otp_records WHERE id = $1`

	queryDeleteExpired = `DELETE FROM otp_records WHERE expires_at <= $1`
)

// ReplaceRecord stores rec as the only record of the pair. Concurrent calls
// for the same pair serialize on the unique key and the last one wins.
func (s *DB) ReplaceRecord(ctx context.Context, rec entity.Record) (err error) {
	ctx, span := s.startSpan(ctx, "ReplaceRecord")
	defer func() { s.endSpan(span, err) }()

	if _, err := s.conn.Exec(ctx, queryUpsertRecord,
		rec.ID,
		rec.Identifier,
		rec.Channel.String(),
		rec.Purpose.String(),
		rec.CodeHash,
		rec.Attempts,
		rec.ExpiresAt,
		rec.CreatedAt,
		rec.UpdatedAt,
	); err != nil {
		return s.mapError(err)
	}

	return nil
}

func (s *DB) FindActiveRecord(ctx context.Context, identifier string, ch entity.Channel, now time.Time) (_ *entity.Record, err error) {
	ctx, span := s.startSpan(ctx, "FindActiveRecord")
	defer func() { s.endSpan(span, err) }()

	var (
		rec     entity.Record
		channel string
		purpose string
	)
	err = s.conn.QueryRow(ctx, queryFindActiveRecord, identifier, ch.String(), now).Scan(
		&rec.ID,
		&rec.Identifier,
		&channel,
		&purpose,
		&rec.CodeHash,
		&rec.Attempts,
		&rec.ExpiresAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		return nil, s.mapError(err)
	}

	rec.Channel = entity.Channel(channel)
	rec.Purpose = entity.Purpose(purpose)

	return &rec, nil
}

func (s *DB) IncrementAttempts(ctx context.Context, rec entity.Record, now time.Time) (err error) {
	ctx, span := s.startSpan(ctx, "IncrementAttempts")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryIncrementAttempts, rec.ID, now)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) DeleteRecord(ctx context.Context, rec entity.Record) (err error) {
	ctx, span := s.startSpan(ctx, "DeleteRecord")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteRecord, rec.ID)
	if err != nil {
		return s.mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

func (s *DB) DeleteExpired(ctx context.Context, now time.Time) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "DeleteExpired")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, queryDeleteExpired, now)
	if err != nil {
		return 0, s.mapError(err)
	}

	return tag.RowsAffected(), nil
}
