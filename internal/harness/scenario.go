package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/txkv/internal/engine"
)

// Scenario is a scripted session with expectations.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Steps are evaluated in order against one fresh Session.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final state and the transcript.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one command line and what it should produce.
type Step struct {
	// Cmd is the raw line handed to the session.
	Cmd string `yaml:"cmd"`

	// Expect is the exact text the line should print.
	// Nil means the line must print nothing, unless Status is set.
	Expect *string `yaml:"expect,omitempty"`

	// Status is the expected engine status (e.g. "no_transaction").
	// Empty means the status is not checked.
	Status string `yaml:"status,omitempty"`
}

// Assertion validates the session after the last step.
type Assertion struct {
	// Type is one of final_state, absent, open_transactions, status_count.
	Type string `yaml:"type"`

	// Expect maps keys to their expected values (final_state).
	Expect map[string]string `yaml:"expect,omitempty"`

	// Keys must not exist (absent).
	Keys []string `yaml:"keys,omitempty"`

	// Status is the status to count (status_count).
	Status string `yaml:"status,omitempty"`

	// Count is the expected depth (open_transactions) or number of steps
	// with Status (status_count).
	Count *int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState       = "final_state"
	AssertAbsent           = "absent"
	AssertOpenTransactions = "open_transactions"
	AssertStatusCount      = "status_count"
)

// ScenarioExt is the file extension LoadScenarios looks for.
const ScenarioExt = ".yaml"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every scenario file in dir, sorted by file name.
// filter is a filepath.Match pattern applied to the scenario name; empty
// matches everything. Duplicate names are rejected.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ScenarioExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	seen := make(map[string]string)
	scenarios := []*Scenario{}
	for _, name := range names {
		path := filepath.Join(dir, name)
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", path, s.Name, prev)
		}
		seen[s.Name] = path

		if filter != "" {
			ok, err := filepath.Match(filter, s.Name)
			if err != nil {
				return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
			}
			if !ok {
				continue
			}
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if strings.TrimSpace(step.Cmd) == "" {
			return fmt.Errorf("steps[%d]: cmd is required", i)
		}
		if step.Status != "" {
			if _, err := engine.ParseStatus(step.Status); err != nil {
				return fmt.Errorf("steps[%d]: %w", i, err)
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)

	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: final_state requires expect", index)
		}

	case AssertAbsent:
		if len(a.Keys) == 0 {
			return fmt.Errorf("assertions[%d]: absent requires keys", index)
		}

	case AssertOpenTransactions:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: open_transactions requires a non-negative count", index)
		}

	case AssertStatusCount:
		if _, err := engine.ParseStatus(a.Status); err != nil {
			return fmt.Errorf("assertions[%d]: status_count: %w", index, err)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: status_count requires a non-negative count", index)
		}

	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
