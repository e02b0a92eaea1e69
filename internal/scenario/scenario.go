// Package scenario runs the syncx primitives through small concurrent
// workloads and checks the properties each one promises.
package scenario

import (
	"context"
	"fmt"
	"sort"

	"github.com/spacemonkeygo/monkit/v3"
)

var mon = monkit.Package()

var (
	ErrUnknown   = fmt.Errorf("unknown scenario")
	ErrViolation = fmt.Errorf("property violated")
)

// Config sizes the workloads.
type Config struct {
	Threads    int // goroutines used by the contention scenarios
	Iterations int // increments per goroutine in the counter scenario
	Messages   int // items sent through the channel scenarios
}

// DefaultConfig returns the sizes used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Threads:    10,
		Iterations: 1000,
		Messages:   1000,
	}
}

// Validate reports sizes that cannot run.
func (c Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}
	if c.Iterations < 1 {
		return fmt.Errorf("iterations must be >= 1, got %d", c.Iterations)
	}
	if c.Messages < 1 {
		return fmt.Errorf("messages must be >= 1, got %d", c.Messages)
	}
	return nil
}

// Func runs one scenario and returns an error wrapping ErrViolation when a
// checked property does not hold.
type Func func(ctx context.Context, cfg Config) error

// Scenario is a named workload.
type Scenario struct {
	Name        string
	Description string
	Run         Func
}

var registry = map[string]Scenario{}

func register(name, description string, fn Func) {
	registry[name] = Scenario{Name: name, Description: description, Run: fn}
}

// All returns every scenario sorted by name.
func All() []Scenario {
	out := make([]Scenario, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Lookup returns the named scenario.
func Lookup(name string) (Scenario, error) {
	s, ok := registry[name]
	if !ok {
		return Scenario{}, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return s, nil
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrViolation, fmt.Sprintf(format, args...))
}
