// Package loadgen drives checkout traffic against a running store and checks
// that every accepted order received a distinct order number.
package loadgen

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned when a scenario file fails validation
var ErrInvalidScenario = errors.New("loadgen: invalid scenario")

// Scenario is the YAML description of one load run
type Scenario struct {
	Name string `yaml:"name"`

	// Target is the base URL of the store, e.g. http://localhost:5000
	Target string `yaml:"target"`

	// Duration bounds the run. Default: 30s
	Duration time.Duration `yaml:"duration"`

	// MaxRequests stops the run after this many checkouts. Zero means no limit.
	MaxRequests int `yaml:"maxRequests,omitempty"`

	// QPS is the checkout rate across all workers. Default: 10
	QPS float64 `yaml:"qps"`

	// Burst is the token bucket size. Default: max(1, int(QPS))
	Burst int `yaml:"burst,omitempty"`

	// Concurrency is the number of workers. Default: 4
	Concurrency int `yaml:"concurrency"`

	// RequestTimeout applies to every HTTP call. Default: 10s
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`

	// Seed makes generated customers reproducible. Zero picks a random seed.
	Seed uint64 `yaml:"seed,omitempty"`

	Orders OrderProfile `yaml:"orders"`

	// Admin credentials enable status updates and the closing stats check
	Admin AdminCredentials `yaml:"admin,omitempty"`

	// CompleteRatio is the share of created orders moved to completed. Needs Admin.
	CompleteRatio float64 `yaml:"completeRatio,omitempty"`
}

// OrderProfile shapes the generated checkout payloads
type OrderProfile struct {
	MinItems       int      `yaml:"minItems"`
	MaxItems       int      `yaml:"maxItems"`
	MinPrice       float64  `yaml:"minPrice"`
	MaxPrice       float64  `yaml:"maxPrice"`
	MaxQuantity    int      `yaml:"maxQuantity"`
	PaymentMethods []string `yaml:"paymentMethods,omitempty"`
}

// AdminCredentials are posted to /auth/admin/login
type AdminCredentials struct {
	Email    string `yaml:"email" json:"email"`
	Password string `yaml:"password" json:"password"`
}

// Enabled reports whether credentials were configured
func (a AdminCredentials) Enabled() bool {
	return a.Email != "" && a.Password != ""
}

// LoadScenario reads, defaults and validates a scenario file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes YAML, applies defaults and validates the result
func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScenario, err)
	}
	sc.ApplyDefaults()
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// ApplyDefaults fills zero values
func (s *Scenario) ApplyDefaults() {
	if s.Name == "" {
		s.Name = "checkout"
	}
	if s.Duration == 0 {
		s.Duration = 30 * time.Second
	}
	if s.QPS == 0 {
		s.QPS = 10
	}
	if s.Burst <= 0 {
		s.Burst = max(1, int(s.QPS))
	}
	if s.Concurrency == 0 {
		s.Concurrency = 4
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 10 * time.Second
	}
	if s.Orders.MinItems == 0 {
		s.Orders.MinItems = 1
	}
	if s.Orders.MaxItems == 0 {
		s.Orders.MaxItems = 3
	}
	if s.Orders.MinPrice == 0 {
		s.Orders.MinPrice = 500
	}
	if s.Orders.MaxPrice == 0 {
		s.Orders.MaxPrice = 5000
	}
	if s.Orders.MaxQuantity == 0 {
		s.Orders.MaxQuantity = 3
	}
	if len(s.Orders.PaymentMethods) == 0 {
		s.Orders.PaymentMethods = []string{"cash"}
	}
}

// Validate checks the scenario after defaults were applied
func (s *Scenario) Validate() error {
	u, err := url.Parse(s.Target)
	if s.Target == "" || err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: target must be an absolute URL, got %q", ErrInvalidScenario, s.Target)
	}
	if s.Duration < 0 || s.QPS < 0 || s.Concurrency < 0 || s.MaxRequests < 0 {
		return fmt.Errorf("%w: duration, qps, concurrency and maxRequests must not be negative", ErrInvalidScenario)
	}
	if s.Orders.MinItems < 1 || s.Orders.MaxItems < s.Orders.MinItems {
		return fmt.Errorf("%w: orders.minItems must be >= 1 and <= orders.maxItems", ErrInvalidScenario)
	}
	if s.Orders.MinPrice <= 0 || s.Orders.MaxPrice < s.Orders.MinPrice {
		return fmt.Errorf("%w: orders.minPrice must be positive and <= orders.maxPrice", ErrInvalidScenario)
	}
	if s.Orders.MaxQuantity < 1 {
		return fmt.Errorf("%w: orders.maxQuantity must be >= 1", ErrInvalidScenario)
	}
	if s.CompleteRatio < 0 || s.CompleteRatio > 1 {
		return fmt.Errorf("%w: completeRatio must be between 0 and 1", ErrInvalidScenario)
	}
	if s.CompleteRatio > 0 && !s.Admin.Enabled() {
		return fmt.Errorf("%w: completeRatio needs admin credentials", ErrInvalidScenario)
	}
	return nil
}
