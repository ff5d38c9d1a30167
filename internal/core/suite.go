package core

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
)

// Expectation is what a scenario expects the call to do.
type Expectation string

// Expectations.
const (
	ExpectOK      Expectation = "ok"
	ExpectBadArgs Expectation = "bad-args"
)

// Scenario is one named variation on a template's defaults.
type Scenario struct {
	Name   string      `yaml:"name"`
	Expect Expectation `yaml:"expect"`
	Modify []Mod       `yaml:"modify"`
}

// Suite is a fixture of scenarios, with optional defaults that replace the template's.
type Suite struct {
	Defaults  Args       `yaml:"defaults"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// LoadSuite decodes a YAML suite. Unknown fields and unknown expectations are errors.
// An empty expectation means ExpectOK.
func LoadSuite(reader io.Reader) (Suite, error) {
	var suite Suite

	err := yaml.NewDecoder(reader, yaml.DisallowUnknownField()).Decode(&suite)
	if err != nil && !errors.Is(err, io.EOF) {
		return Suite{}, fmt.Errorf("%w: %w", ErrBadFixture, err)
	}

	for i := range suite.Scenarios {
		scenario := &suite.Scenarios[i]

		switch scenario.Expect {
		case "":
			scenario.Expect = ExpectOK
		case ExpectOK, ExpectBadArgs:
		default:
			return Suite{}, fmt.Errorf("%w: scenario %d (%q): unknown expectation %q",
				ErrBadFixture, i, scenario.Name, scenario.Expect)
		}

		if scenario.Name == "" {
			scenario.Name = untitled
		}
	}

	return suite, nil
}

// LoadSuiteFile reads and decodes the YAML suite at path.
func LoadSuiteFile(path string) (Suite, error) {
	file, err := os.Open(path) //nolint:gosec // fixture paths come from the test author
	if err != nil {
		return Suite{}, fmt.Errorf("failed to open fixture %s: %w", path, err)
	}
	defer file.Close()

	suite, err := LoadSuite(file)
	if err != nil {
		return Suite{}, fmt.Errorf("fixture %s: %w", path, err)
	}

	return suite, nil
}

// Run registers one test per scenario. Each scenario gets its own copy of the defaults
// (the suite's when it has them, the template's otherwise) with its mods applied, and is
// registered with Test or TestBadArgs according to its expectation. A scenario whose
// defaults can't be copied or don't match the template's params is returned as an error,
// and no later scenario is registered.
func (tc *TestCase) Run(suite Suite) error {
	for _, scenario := range suite.Scenarios {
		scenarioCase, err := tc.forScenario(suite)
		if err != nil {
			return fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		scenarioCase.Modify(scenario.Modify...)

		if err := scenarioCase.Check(); err != nil {
			return fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}

		if scenario.Expect == ExpectBadArgs {
			scenarioCase.TestBadArgs(scenario.Name)
		} else {
			scenarioCase.Test(scenario.Name)
		}
	}

	return nil
}

// forScenario copies the template for one scenario of suite.
func (tc *TestCase) forScenario(suite Suite) (*TestCase, error) {
	if suite.Defaults == nil {
		return tc.Clone()
	}

	copied, err := deepCopy(suite.Defaults)
	if err != nil {
		return nil, err
	}

	scenarioCase := *tc
	scenarioCase.Defaults, _ = copied.(Args)
	scenarioCase.Params = slices.Clone(tc.Params)

	return &scenarioCase, nil
}
