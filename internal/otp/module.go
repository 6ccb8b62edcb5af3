package otp

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/gocare/internal/otp/inbound"
	"github.com/shandysiswandi/gocare/internal/otp/outbound/cache"
	"github.com/shandysiswandi/gocare/internal/otp/outbound/db"
	"github.com/shandysiswandi/gocare/internal/otp/outbound/mq"
	"github.com/shandysiswandi/gocare/internal/otp/usecase"
	"github.com/shandysiswandi/gocare/internal/pkg/clock"
	"github.com/shandysiswandi/gocare/internal/pkg/config"
	"github.com/shandysiswandi/gocare/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocare/internal/pkg/hash"
	"github.com/shandysiswandi/gocare/internal/pkg/idempotency"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/messaging"
	"github.com/shandysiswandi/gocare/internal/pkg/otp"
	"github.com/shandysiswandi/gocare/internal/pkg/router"
	"github.com/shandysiswandi/gocare/internal/pkg/uid"
	"github.com/shandysiswandi/gocare/internal/pkg/validator"
)

const (
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// ErrPostgresRequired is returned when the postgres store is selected without a pool.
var ErrPostgresRequired = errors.New("otp: postgres store selected but no database connection")

type Dependency struct {
	Ctx         context.Context            `validate:"required"`
	DBConn      *pgxpool.Pool              // only for the postgres store
	CacheConn   *redis.Client              `validate:"required"`
	Goroutine   *goroutine.Manager         `validate:"required"`
	Router      *router.Router             `validate:"required"`
	Idempotency idempotency.Idempotency    `validate:"required"`
	Messaging   messaging.Messaging        `validate:"required"`
	Config      config.Config              `validate:"required"`
	Instrument  instrument.Instrumentation `validate:"required"`
	UID         uid.NumberID               `validate:"required"`
	HMAC        hash.Hash                  `validate:"required"`
	Code        otp.Generator              `validate:"required"`
	Clock       clock.Clocker              `validate:"required"`
	Validator   validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	cacheOTP := cache.NewCache(dep.CacheConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	ucDep := usecase.Dependency{
		RepoStore:     cacheOTP,
		RepoCooldown:  cacheOTP,
		RepoMessaging: repoMsg,
		Idempotency:   dep.Idempotency,
		Validator:     dep.Validator,
		Config:        dep.Config,
		HMAC:          dep.HMAC,
		Code:          dep.Code,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	}

	sweep := false
	if dep.Config.GetString("modules.otp.store") == StorePostgres {
		if dep.DBConn == nil {
			return ErrPostgresRequired
		}
		dbOTP := db.NewDB(dep.DBConn, dep.Instrument)
		if err := dbOTP.Migrate(dep.Ctx); err != nil {
			return err
		}
		ucDep.RepoStore = dbOTP
		sweep = true
	}

	uc := usecase.New(ucDep)

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	if sweep {
		sweeper := inbound.NewSweeper(uc, dep.Config.GetSecond("modules.otp.sweep_interval_seconds"))
		dep.Goroutine.Go(dep.Ctx, "otp.sweeper", sweeper.Run)
	}

	return nil
}
