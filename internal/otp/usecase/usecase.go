package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/gocare/internal/otp/entity"
	"github.com/shandysiswandi/gocare/internal/pkg/clock"
	"github.com/shandysiswandi/gocare/internal/pkg/config"
	"github.com/shandysiswandi/gocare/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocare/internal/pkg/hash"
	"github.com/shandysiswandi/gocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/otp"
	"github.com/shandysiswandi/gocare/internal/pkg/uid"
	"github.com/shandysiswandi/gocare/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultTTL         = 10 * time.Minute
	defaultMaxAttempts = 3
)

type OTPIssuedEvent struct {
	Channel     entity.Channel
	Destination string
	Name        string
	Code        string
	Purpose     entity.Purpose
	ExpiresAt   time.Time
}

type repoMessaging interface {
	PublishOTPIssued(ctx context.Context, msg OTPIssuedEvent) error
}

// repoStore returns goerror.ErrNotFound when no record matches.
type repoStore interface {
	ReplaceRecord(ctx context.Context, rec entity.Record) error
	FindActiveRecord(ctx context.Context, identifier string, ch entity.Channel, now time.Time) (*entity.Record, error)
	IncrementAttempts(ctx context.Context, rec entity.Record, now time.Time) error
	DeleteRecord(ctx context.Context, rec entity.Record) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repoCooldown interface {
	AcquireCooldown(ctx context.Context, identifier string, ch entity.Channel, ttl time.Duration) (bool, error)
	ReleaseCooldown(ctx context.Context, identifier string, ch entity.Channel) error
}

type Usecase struct {
	repoStore     repoStore
	repoCooldown  repoCooldown
	repoMessaging repoMessaging
	idemp         idempotency.Idempotency
	validator     validator.Validator
	cfg           config.Config
	hmac          hash.Hash
	code          otp.Generator
	uid           uid.NumberID
	clock         clock.Clocker
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoStore     repoStore
	RepoCooldown  repoCooldown
	RepoMessaging repoMessaging
	Idempotency   idempotency.Idempotency
	Validator     validator.Validator
	Config        config.Config
	HMAC          hash.Hash
	Code          otp.Generator
	UID           uid.NumberID
	Clock         clock.Clocker
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoStore:     dep.RepoStore,
		repoCooldown:  dep.RepoCooldown,
		repoMessaging: dep.RepoMessaging,
		idemp:         dep.Idempotency,
		validator:     dep.Validator,
		cfg:           dep.Config,
		hmac:          dep.HMAC,
		code:          dep.Code,
		uid:           dep.UID,
		clock:         dep.Clock,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("otp.usecase").Start(ctx, name)
}

func (s *Usecase) ttl() time.Duration {
	if ttl := s.cfg.GetMinute("modules.otp.ttl_minutes"); ttl > 0 {
		return ttl
	}
	return defaultTTL
}

func (s *Usecase) maxAttempts() int {
	if n := s.cfg.GetInt("modules.otp.max_attempts"); n > 0 {
		return n
	}
	return defaultMaxAttempts
}
