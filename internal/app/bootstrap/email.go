package bootstrap

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/wolfman30/mindmate-ai/internal/config"
	"github.com/wolfman30/mindmate-ai/internal/notify"
	"github.com/wolfman30/mindmate-ai/pkg/logging"
)

// BuildEmailSender returns the caregiver e-mail transport. Misconfigured
// providers degrade to the stub sender so alerts are still logged.
func BuildEmailSender(ctx context.Context, cfg *appconfig.Config, loadAWS AWSConfigLoader, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		return notify.NewStubEmailSender(logger)
	}

	switch provider := strings.ToLower(strings.TrimSpace(cfg.EmailProvider)); provider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			logger.Info("caregiver email via sendgrid")
			return sender
		}
		logger.Warn("sendgrid not configured; falling back to stub email sender")
	case "ses":
		if loadAWS == nil {
			logger.Warn("ses requested without aws config; falling back to stub email sender")
			break
		}
		awsCfg, err := loadAWS(ctx)
		if err != nil {
			logger.Warn("failed to load aws config for ses", "error", err)
			break
		}
		sender := notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if sender != nil {
			logger.Info("caregiver email via ses")
			return sender
		}
		logger.Warn("SES_FROM_EMAIL not set; falling back to stub email sender")
	case "", "stub":
	default:
		logger.Warn("unknown email provider; using stub", "provider", provider)
	}
	return notify.NewStubEmailSender(logger)
}
