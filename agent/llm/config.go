package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/Chative-Storefront-Assistant/agent/contract"
	openrouterx "github.com/tanpawarit/Chative-Storefront-Assistant/pkg/openrouter"
)

// Config carries the OpenRouter provider settings plus optional per-persona
// overrides. Loaded under the OPENROUTER env prefix. A temperature of -1
// means "not set"; 0 is a valid override.
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	CustomerModel       string  `envconfig:"CUSTOMER_MODEL" split_words:"true"`
	AdminModel          string  `envconfig:"ADMIN_MODEL" split_words:"true"`
	CustomerTemperature float32 `envconfig:"CUSTOMER_TEMPERATURE" split_words:"true" default:"-1"`
	AdminTemperature    float32 `envconfig:"ADMIN_TEMPERATURE" split_words:"true" default:"-1"`

	RequestsPerMinute float64 `envconfig:"REQUESTS_PER_MINUTE" split_words:"true" default:"60"`
	SkipPreflight     bool    `envconfig:"SKIP_PREFLIGHT" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the provider settings for one persona, applying
// any per-persona model or temperature override.
func (c Config) OpenRouterFor(persona contractx.PersonaType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch persona {
	case contractx.PersonaTypeCustomer:
		if v := strings.TrimSpace(c.CustomerModel); v != "" {
			modelName = v
		}
		if c.CustomerTemperature >= 0 {
			temp = c.CustomerTemperature
		}
	case contractx.PersonaTypeAdmin:
		if v := strings.TrimSpace(c.AdminModel); v != "" {
			modelName = v
		}
		if c.AdminTemperature >= 0 {
			temp = c.AdminTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
