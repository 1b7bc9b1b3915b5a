package bootstrap

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/dentalworks/dental-clinic-platform/internal/config"
	"github.com/dentalworks/dental-clinic-platform/internal/notify"
	"github.com/dentalworks/dental-clinic-platform/pkg/logging"
)

// BuildEmailSender selects the outbound email provider from config. It
// returns the sender, the provider actually in use, and a reason when the
// configured provider could not be built and the stub took its place.
func BuildEmailSender(cfg *appconfig.Config, awsCfg aws.Config, logger *logging.Logger) (notify.EmailSender, string, string) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger), "stub", "missing config"
	}

	switch strings.ToLower(strings.TrimSpace(cfg.EmailProvider)) {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender == nil {
			return notify.NewStubEmailSender(logger), "stub", "sendgrid api key not set"
		}
		return sender, "sendgrid", ""
	case "ses":
		if strings.TrimSpace(cfg.SESFromEmail) == "" {
			return notify.NewStubEmailSender(logger), "stub", "ses from address not set"
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.ClinicName,
		}, logger)
		return sender, "ses", ""
	default:
		return notify.NewStubEmailSender(logger), "stub", ""
	}
}
