package usecase

import (
	"bytes"
	"context"
	"html/template"
	texttemplate "text/template"

	"github.com/shandysiswandi/gocare/internal/pkg/clock"
	"github.com/shandysiswandi/gocare/internal/pkg/config"
	"github.com/shandysiswandi/gocare/internal/pkg/instrument"
	"github.com/shandysiswandi/gocare/internal/pkg/mail"
	"github.com/shandysiswandi/gocare/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const defaultClinicName = "Dr. Rohit's Healthcare"

type repoMail interface {
	Send(ctx context.Context, msg mail.Message) error
}

type repoSMS interface {
	Send(ctx context.Context, phone, text string) error
}

type Usecase struct {
	cfg       config.Config
	clock     clock.Clocker
	validator validator.Validator
	repoMail  repoMail
	repoSMS   repoSMS
	ins       instrument.Instrumentation
}

type Dependency struct {
	Config     config.Config
	Clock      clock.Clocker
	Validator  validator.Validator
	RepoMail   repoMail
	RepoSMS    repoSMS
	Instrument instrument.Instrumentation
}

func NewNotification(dep Dependency) *Usecase {
	return &Usecase{
		cfg:       dep.Config,
		clock:     dep.Clock,
		validator: dep.Validator,
		repoMail:  dep.RepoMail,
		repoSMS:   dep.RepoSMS,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}

func (s *Usecase) renderTemplate(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// renderText is renderTemplate without HTML escaping, for subjects, plain
// bodies and SMS.
func (s *Usecase) renderText(name, tpl string, data map[string]any) (string, error) {
	t, err := texttemplate.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *Usecase) clinicName() string {
	if name := s.cfg.GetString("modules.notification.clinic_name"); name != "" {
		return name
	}
	return defaultClinicName
}

func (s *Usecase) baseTemplateData() map[string]any {
	return map[string]any{
		"clinic_name": s.clinicName(),
		"year":        s.clock.Now().Format("2006"),
	}
}
