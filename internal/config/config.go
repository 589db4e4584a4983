// Package config implements the detector's Configurator: parsing and
// range-validating the tunables in spec.md §4.6 from a flat, string-keyed
// options map. Unknown keys are ignored; missing keys keep defaults;
// type or range violations reject the whole call with ErrConfigRejected.
package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/TeamTap/cruise-control/internal/domain"
)

// Config holds every validated tunable the detector reads on each round.
type Config struct {
	BytesInRateDetectionThreshold float64 `mapstructure:"bytesInRateDetectionThreshold"`
	MetricHistoryPercentile       float64 `mapstructure:"metricHistoryPercentile"`
	MetricHistoryMargin           float64 `mapstructure:"metricHistoryMargin"`
	PeerMetricPercentile          float64 `mapstructure:"peerMetricPercentile"`
	PeerMetricMargin              float64 `mapstructure:"peerMetricMargin"`
	DemotionScore                 int     `mapstructure:"demotionScore"`
	DecommissionScore             int     `mapstructure:"decommissionScore"`
	SelfHealingUnfixableRatio     float64 `mapstructure:"selfHealingUnfixableRatio"`
	SlowBrokerRemovalEnabled      bool    `mapstructure:"slowBrokerRemovalEnabled"`
}

// Default returns the configuration with every default from spec.md §4.6.
func Default() Config {
	return Config{
		BytesInRateDetectionThreshold: 1048576,
		MetricHistoryPercentile:       90.0,
		MetricHistoryMargin:           3.0,
		PeerMetricPercentile:          50.0,
		PeerMetricMargin:              10.0,
		DemotionScore:                 5,
		DecommissionScore:             50,
		SelfHealingUnfixableRatio:     0.1,
		SlowBrokerRemovalEnabled:      false,
	}
}

// FromOptions decodes options onto the defaults and validates the result.
// Unknown keys in options are ignored. A nil or empty options map returns
// the defaults unchanged.
func FromOptions(options map[string]interface{}) (Config, error) {
	cfg := Default()
	if len(options) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, fmt.Errorf("%w: building decoder: %v", domain.ErrConfigRejected, err)
	}
	if err := decoder.Decode(options); err != nil {
		return Config{}, fmt.Errorf("%w: %v", domain.ErrConfigRejected, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return Config{}, fmt.Errorf("%w: %v", domain.ErrConfigRejected, errs)
	}
	return cfg, nil
}
