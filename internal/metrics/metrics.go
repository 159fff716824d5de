package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the service counters registered on the default registry.
type Metrics struct {
	ChatRequests     prometheus.Counter
	MockFallbacks    prometheus.Counter
	ProviderFailures prometheus.Counter
	ReportsGenerated prometheus.Counter
	AccessGranted    prometheus.Counter
	AccessDenied     prometheus.Counter
}

var (
	once   sync.Once
	global *Metrics
)

// Global returns the process-wide metrics, registering them on first use.
func Global() *Metrics {
	once.Do(func() {
		global = &Metrics{
			ChatRequests: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "simulator",
				Name:      "chat_requests_total",
				Help:      "Total chat turns requested",
			}),
			MockFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "simulator",
				Name:      "chat_mock_fallbacks_total",
				Help:      "Total chat replies served from the mock generator",
			}),
			ProviderFailures: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "simulator",
				Name:      "provider_failures_total",
				Help:      "Total failed generative-language provider calls",
			}),
			ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "simulator",
				Name:      "reports_generated_total",
				Help:      "Total coaching reports generated",
			}),
			AccessGranted: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "simulator",
				Name:      "access_granted_total",
				Help:      "Total successful access-code verifications",
			}),
			AccessDenied: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: "simulator",
				Name:      "access_denied_total",
				Help:      "Total rejected access-code verifications",
			}),
		}
		prometheus.MustRegister(
			global.ChatRequests,
			global.MockFallbacks,
			global.ProviderFailures,
			global.ReportsGenerated,
			global.AccessGranted,
			global.AccessDenied,
		)
	})
	return global
}
