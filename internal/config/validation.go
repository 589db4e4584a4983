package config

import "fmt"

// ValidationError reports a single tunable that failed range validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every tunable against the ranges in spec.md §4.6 and
// returns one ValidationError per violation found. No field is clamped.
func (c Config) Validate() []error {
	var errs []error

	if c.BytesInRateDetectionThreshold < 0 {
		errs = append(errs, &ValidationError{
			Field:   "bytesInRateDetectionThreshold",
			Message: fmt.Sprintf("must be >= 0, got %v", c.BytesInRateDetectionThreshold),
		})
	}

	if c.MetricHistoryPercentile < 0.0 || c.MetricHistoryPercentile > 100.0 {
		errs = append(errs, &ValidationError{
			Field:   "metricHistoryPercentile",
			Message: fmt.Sprintf("must be in [0.0, 100.0], got %v", c.MetricHistoryPercentile),
		})
	}

	if c.MetricHistoryMargin < 1.0 {
		errs = append(errs, &ValidationError{
			Field:   "metricHistoryMargin",
			Message: fmt.Sprintf("must be >= 1.0, got %v", c.MetricHistoryMargin),
		})
	}

	if c.PeerMetricPercentile < 0.0 || c.PeerMetricPercentile > 100.0 {
		errs = append(errs, &ValidationError{
			Field:   "peerMetricPercentile",
			Message: fmt.Sprintf("must be in [0.0, 100.0], got %v", c.PeerMetricPercentile),
		})
	}

	if c.PeerMetricMargin < 1.0 {
		errs = append(errs, &ValidationError{
			Field:   "peerMetricMargin",
			Message: fmt.Sprintf("must be >= 1.0, got %v", c.PeerMetricMargin),
		})
	}

	if c.DemotionScore < 0 {
		errs = append(errs, &ValidationError{
			Field:   "demotionScore",
			Message: fmt.Sprintf("must be >= 0, got %d", c.DemotionScore),
		})
	}

	if c.DecommissionScore < c.DemotionScore {
		errs = append(errs, &ValidationError{
			Field:   "decommissionScore",
			Message: fmt.Sprintf("must be >= demotionScore (%d), got %d", c.DemotionScore, c.DecommissionScore),
		})
	}

	if c.SelfHealingUnfixableRatio < 0.0 || c.SelfHealingUnfixableRatio > 1.0 {
		errs = append(errs, &ValidationError{
			Field:   "selfHealingUnfixableRatio",
			Message: fmt.Sprintf("must be in [0.0, 1.0], got %v", c.SelfHealingUnfixableRatio),
		})
	}

	return errs
}
