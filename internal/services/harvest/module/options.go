package module

import (
	"time"

	"rowboat/internal/platform/config"
)

// Options holds configuration settings for the harvest module
type Options struct {
	BaseURL   string
	Username  string
	APIKey    string
	UserAgent string
	Timeout   time.Duration
	Sites     []string
	Policy    string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	hf := cfg.Prefix("HARVEST_")
	return Options{
		BaseURL:   hf.MayString("BASE_URL", ""),
		Username:  hf.MayString("USERNAME", ""),
		APIKey:    hf.MayString("API_KEY", ""),
		UserAgent: hf.MayString("USER_AGENT", ""),
		Timeout:   hf.MayDuration("TIMEOUT", 60*time.Second),
		Sites:     hf.MayCSV("SITES", nil),
		Policy:    hf.MayEnum("POLICY", "disambiguate", "disambiguate", "overwrite"),
	}
}
