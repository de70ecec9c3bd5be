// internal/workers/application/notify-applicant/config.go
package notifyapplicant

import (
	"time"

	"creator-campaign-workers/internal/common/config"
)

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SMSSenderID  string
	Timeout      time.Duration
}

func LoadConfig(cfg *config.Config, wc config.WorkerConfig) *Config {
	out := &Config{
		EmailEnabled: cfg.Integrations.AWS.SES.Enabled,
		SMSEnabled:   cfg.Integrations.AWS.SNS.Enabled,
		FromEmail:    cfg.Integrations.AWS.SES.FromEmail,
		SMSSenderID:  cfg.Integrations.AWS.SNS.DefaultSMSSenderID,
		Timeout:      config.GetDuration(wc.Timeout),
	}
	if out.Timeout <= 0 {
		out.Timeout = 10 * time.Second
	}
	return out
}
