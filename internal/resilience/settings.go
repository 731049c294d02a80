package resilience

import "time"

// Settings are the configured knobs shared by every upstream client.
type Settings struct {
	MaxAttempts      int
	FailureThreshold int
	ResetTimeout     time.Duration
}

// Retry returns the retry policy for settings, logging attempts against
// service.
func (s Settings) Retry(service string) RetryConfig {
	cfg := DefaultRetryConfig()
	if s.MaxAttempts > 0 {
		cfg.MaxAttempts = s.MaxAttempts
	}
	cfg.OnRetry = RetryLogger(service, "fetch")
	return cfg
}

// Breaker returns a breaker for service.
func (s Settings) Breaker(service string) *Breaker {
	return NewBreaker(BreakerConfig{
		Name:             service,
		FailureThreshold: s.FailureThreshold,
		ResetTimeout:     s.ResetTimeout,
	})
}
