package notification

import (
	"context"

	"github.com/shandysiswandi/gocare/internal/notification/inbound"
	"github.com/shandysiswandi/gocare/internal/notification/outbound/email"
	"github.com/shandysiswandi/gocare/internal/notification/outbound/sms"
	"github.com/shandysiswandi/gocare/internal/notification/usecase"
	"github.com/shandysiswandi/gocare/internal/pkg/clock"
	"github.com/shandysiswandi/gocare/internal/pkg/config"
	"github.com/shandysiswandi/gocare/internal/pkg/goroutine"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/mail"
	"github.com/shandysiswandi/gocare/internal/pkg/messaging"
	pkgsms "github.com/shandysiswandi/gocare/internal/pkg/sms"
	"github.com/shandysiswandi/gocare/internal/pkg/uid"
	"github.com/shandysiswandi/gocare/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	SMS        pkgsms.Sender              `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	repoMail := email.New(dep.Mail, dep.Instrument)
	repoSMS := sms.New(dep.SMS, dep.Instrument)

	uc := usecase.NewNotification(usecase.Dependency{
		Config:     dep.Config,
		Clock:      dep.Clock,
		Validator:  dep.Validator,
		RepoMail:   repoMail,
		RepoSMS:    repoSMS,
		Instrument: dep.Instrument,
	})

	if dep.Ctx != nil {
		inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)
	}

	return nil
}
