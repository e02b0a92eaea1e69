package cli

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/magiconair/properties"
	"github.com/spf13/pflag"

	"github.com/aradilov/syncx/internal/scenario"
)

// Keys shared by the properties file and the run flags.
const (
	keyThreads    = "threads"
	keyIterations = "iterations"
	keyMessages   = "messages"
)

// loadConfig reads scenario sizes from a properties file, falling back to
// [scenario.DefaultConfig] for missing keys. An empty path yields the defaults.
//
//	threads = 10
//	iterations = 1000
//	messages = 1000
func loadConfig(path string) (scenario.Config, error) {
	cfg := scenario.DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	p, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return cfg, fmt.Errorf("load config %q: %w", path, err)
	}

	var merr error
	for key, dst := range fieldsOf(&cfg) {
		s, ok := p.Get(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", key, err))
			continue
		}
		*dst = n
	}
	if merr != nil {
		return cfg, fmt.Errorf("config %q: %w", path, merr)
	}

	return cfg, nil
}

// applyFlags overrides cfg with the run flags the user set explicitly.
func applyFlags(cfg *scenario.Config, flags *pflag.FlagSet) error {
	var merr error
	for key, dst := range fieldsOf(cfg) {
		if !flags.Changed(key) {
			continue
		}
		n, err := flags.GetInt(key)
		if err != nil {
			merr = multierror.Append(merr, err)
			continue
		}
		*dst = n
	}
	return merr
}

func fieldsOf(cfg *scenario.Config) map[string]*int {
	return map[string]*int{
		keyThreads:    &cfg.Threads,
		keyIterations: &cfg.Iterations,
		keyMessages:   &cfg.Messages,
	}
}
