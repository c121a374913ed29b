package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PricingConfig carries the evaluation defaults that used to be threaded
// through call sites as optional parameters.
type PricingConfig struct {
	DefaultCurrency          string  `mapstructure:"defaultCurrency"`
	DefaultQuantity          float64 `mapstructure:"defaultQuantity"`
	DefaultNonMigratableText string  `mapstructure:"defaultNonMigratableText"`
	IncludeExpiredPlans      bool    `mapstructure:"includeExpiredPlans"`
}

func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		DefaultCurrency:          "USD",
		DefaultQuantity:          1,
		DefaultNonMigratableText: "This product has no supported migration path. Contact your account team for options.",
		IncludeExpiredPlans:      false,
	}
}

type PricingConfigHolder struct {
	current atomic.Value // holds PricingConfig
}

func NewPricingConfigHolder() (*PricingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("pricing")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/quotient/config") // Volume-mounted config
	v.AddConfigPath("/etc/quotient")            // System config
	v.AddConfigPath(".")                        // Current directory (dev mode)

	v.SetEnvPrefix("QUOTIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		// if config file not found, use defaults
		defaults := DefaultPricingConfig()
		v.SetDefault("pricing.defaultCurrency", defaults.DefaultCurrency)
		v.SetDefault("pricing.defaultQuantity", defaults.DefaultQuantity)
		v.SetDefault("pricing.defaultNonMigratableText", defaults.DefaultNonMigratableText)
		v.SetDefault("pricing.includeExpiredPlans", defaults.IncludeExpiredPlans)
	}

	var cfg PricingConfig
	if err := v.UnmarshalKey("pricing", &cfg); err != nil {
		return nil, err
	}
	if err := validatePricingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated PricingConfig
		if err := v.UnmarshalKey("pricing", &updated); err != nil {
			log.Printf("[pricing-config] reload failed: %v", err)
			return
		}
		if err := validatePricingConfig(updated); err != nil {
			log.Printf("[pricing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[pricing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// StaticPricingConfig returns a holder pinned to cfg with no file watching.
// Used by tests and one-shot tools.
func StaticPricingConfig(cfg PricingConfig) *PricingConfigHolder {
	holder := &PricingConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *PricingConfigHolder) Get() PricingConfig {
	return h.current.Load().(PricingConfig)
}

func validatePricingConfig(cfg PricingConfig) error {
	if strings.TrimSpace(cfg.DefaultCurrency) == "" {
		return errors.New("pricing.defaultCurrency cannot be empty")
	}
	if cfg.DefaultQuantity < 0 {
		return errors.New("pricing.defaultQuantity cannot be negative")
	}
	if strings.TrimSpace(cfg.DefaultNonMigratableText) == "" {
		return errors.New("pricing.defaultNonMigratableText cannot be empty")
	}
	return nil
}
