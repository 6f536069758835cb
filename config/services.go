package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ServiceMode represents the available service modes.
type ServiceMode string

const (
	// ServiceModeHTTP runs the HTTP API server.
	ServiceModeHTTP ServiceMode = "http"
	// ServiceModeScreenerSync runs the screener registry cache warmer.
	ServiceModeScreenerSync ServiceMode = "screener-sync"
)

// ValidServiceModes returns all valid service mode names.
func ValidServiceModes() []ServiceMode {
	return []ServiceMode{
		ServiceModeHTTP,
		ServiceModeScreenerSync,
	}
}

// ParseServices parses a comma-delimited string of service names and returns the enabled services.
// It validates that all service names are valid and returns an error if any are invalid.
func ParseServices(servicesStr string) (map[ServiceMode]bool, error) {
	services := make(map[ServiceMode]bool)

	if servicesStr == "" {
		return services, errors.New("at least one service must be specified")
	}

	parts := strings.Split(servicesStr, ",")
	for _, part := range parts {
		serviceName := strings.TrimSpace(part)
		if serviceName == "" {
			continue
		}

		mode := ServiceMode(serviceName)
		switch mode {
		case ServiceModeHTTP, ServiceModeScreenerSync:
			services[mode] = true
		default:
			return nil, fmt.Errorf(
				"invalid service name: %q (valid options: http, screener-sync)",
				serviceName,
			)
		}
	}

	if len(services) == 0 {
		return nil, errors.New("at least one valid service must be specified")
	}

	return services, nil
}

// PollConfig contains the refresh intervals for the job and log watchers.
type PollConfig struct {
	// JobInterval is how often a watched job's detail is re-read.
	JobInterval time.Duration `env:"POLL_JOB_INTERVAL" envDefault:"10s"`

	// LogInterval is how often a live log tail polls the log source.
	LogInterval time.Duration `env:"POLL_LOG_INTERVAL" envDefault:"2s"`

	// LogPageSize is the window size for paged and tailed log fetches.
	LogPageSize int `env:"POLL_LOG_PAGE_SIZE" envDefault:"100"`
}

// Sanitize applies guardrails to poll configuration values.
func (p *PollConfig) Sanitize() {
	if p.JobInterval < time.Second {
		p.JobInterval = time.Second
	}
	if p.LogInterval < 500*time.Millisecond {
		p.LogInterval = 500 * time.Millisecond
	}
	if p.LogPageSize < 1 {
		p.LogPageSize = 1
	}
	if p.LogPageSize > 1000 {
		p.LogPageSize = 1000
	}
}

// ScreenerSyncConfig contains screener cache warmer configuration.
type ScreenerSyncConfig struct {
	// Interval is the warmer tick interval.
	Interval time.Duration `env:"SCREENER_SYNC_INTERVAL" envDefault:"30s"`
}

// Sanitize applies guardrails to screener sync configuration values.
func (s *ScreenerSyncConfig) Sanitize() {
	if s.Interval < 5*time.Second {
		s.Interval = 5 * time.Second
	}
}
