// Package notify broadcasts finished-run summaries over a mangos pub
// socket. Downstream collectors subscribe to the RUN: topic and receive
// one JSON summary per completed analysis. Delivery is best effort: a
// full buffer drops the summary rather than stalling the engine.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/dd0wney/cluso-egress/pkg/validation"
)

// TopicRun prefixes every published message for subscriber-side filtering.
const TopicRun = "RUN:"

// RunSummary is the payload broadcast for each completed run.
type RunSummary struct {
	RunID            string         `json:"run_id"`
	StartedAt        time.Time      `json:"started_at"`
	FinishedAt       time.Time      `json:"finished_at"`
	Status           string         `json:"status"`
	Score            float64        `json:"score"`
	TotalChecks      int            `json:"total_checks"`
	FailedChecks     int            `json:"failed_checks"`
	Summary          string         `json:"summary"`
	FailedByCategory map[string]int `json:"failed_by_category,omitempty"`
}

// Config configures the run summary publisher.
type Config struct {
	ListenAddr  string        `yaml:"listen_addr"`  // tcp://, ipc:// or inproc://
	BufferSize  int           `yaml:"buffer_size"`  // default 256
	SendTimeout time.Duration `yaml:"send_timeout"` // default 1s
}

func (c Config) withDefaults() Config {
	c.BufferSize = validation.DefaultOrInt(c.BufferSize, 256)
	c.SendTimeout = validation.DefaultOrDuration(c.SendTimeout, time.Second)
	return c
}

// Validate checks the configuration before a publisher is created.
func (c *Config) Validate() error {
	return validation.NewConfigValidator("notify").
		Required("ListenAddr", c.ListenAddr).
		When(c.ListenAddr != "", func(v *validation.ConfigValidator) {
			v.Custom("ListenAddr", func() error {
				for _, scheme := range []string{"tcp://", "ipc://", "inproc://"} {
					if strings.HasPrefix(c.ListenAddr, scheme) {
						return nil
					}
				}
				return fmt.Errorf("address must use a tcp, ipc or inproc scheme")
			})
		}).
		Validate()
}
