package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/akmonengine/spin/inertia"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalidSuite is returned when a suite cannot be run.
var ErrInvalidSuite = errors.New("invalid suite")

// Suite holds the physics settings and the list of scenarios to run.
type Suite struct {
	Timestep  float64    `yaml:"timestep"`  // seconds per physics step
	Threshold float64    `yaml:"threshold"` // max abs difference per axis
	Gravity   mgl64.Vec3 `yaml:"gravity"`
	Substeps  int        `yaml:"substeps"`
	Workers   int        `yaml:"workers"`

	// Sleep is off while either threshold is zero
	SleepTimeThreshold     float64 `yaml:"sleep_time_threshold"`
	SleepVelocityThreshold float64 `yaml:"sleep_velocity_threshold"`

	Body Body `yaml:"body"`

	// Groups are expanded once per torque, with InertiaTensor unless they override it
	InertiaTensor mgl64.Vec3   `yaml:"inertia_tensor"`
	Torques       []mgl64.Vec3 `yaml:"torques"`
	Groups        []Group      `yaml:"groups"`

	// Extra scenarios run as given, after the groups
	Extra []Scenario `yaml:"scenarios"`
}

// DefaultSuite returns the embedded suite.
func DefaultSuite() (*Suite, error) {
	return LoadSuite("")
}

// LoadSuite reads the embedded defaults, then overlays the YAML file at path if any.
// Lists present in the file replace the default lists.
func LoadSuite(path string) (*Suite, error) {
	suite := &Suite{}
	if err := yaml.Unmarshal(defaultsYAML, suite); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading suite file: %w", err)
		}
		if err := yaml.Unmarshal(data, suite); err != nil {
			return nil, fmt.Errorf("parsing suite file: %w", err)
		}
	}

	if err := suite.Validate(); err != nil {
		return nil, err
	}

	return suite, nil
}

// WriteYAML saves the suite, so a run can be reproduced with LoadSuite.
func (s *Suite) WriteYAML(path string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling suite: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing suite file: %w", err)
	}

	return nil
}

// Scenarios expands the groups over the torques, then appends the extra scenarios.
func (s *Suite) Scenarios() []Scenario {
	scenarios := make([]Scenario, 0, len(s.Groups)*len(s.Torques)+len(s.Extra))

	for _, group := range s.Groups {
		tensor := s.InertiaTensor
		if group.InertiaTensor != nil {
			tensor = *group.InertiaTensor
		}

		for _, torque := range s.Torques {
			scenarios = append(scenarios, Scenario{
				Name:                  group.Name + "/" + torqueLabel(torque),
				InertiaTensor:         tensor,
				InertiaTensorRotation: group.InertiaTensorRotation,
				Orientation:           group.Orientation,
				Torque:                torque,
				Relative:              group.Relative,
				Static:                group.Static,
			})
		}
	}

	return append(scenarios, s.Extra...)
}

// Validate checks the settings and every expanded scenario.
func (s *Suite) Validate() error {
	if !(s.Timestep > 0) || math.IsInf(s.Timestep, 0) {
		return fmt.Errorf("%w: timestep must be a positive number, got %v", ErrInvalidSuite, s.Timestep)
	}
	if !(s.Threshold > 0) {
		return fmt.Errorf("%w: threshold must be positive, got %v", ErrInvalidSuite, s.Threshold)
	}
	if s.Substeps < 0 || s.Workers < 0 {
		return fmt.Errorf("%w: substeps and workers cannot be negative", ErrInvalidSuite)
	}
	if s.SleepTimeThreshold < 0 || s.SleepVelocityThreshold < 0 {
		return fmt.Errorf("%w: sleep thresholds cannot be negative", ErrInvalidSuite)
	}
	if err := s.Body.Validate(); err != nil {
		return fmt.Errorf("%w: body: %w", ErrInvalidSuite, err)
	}

	scenarios := s.Scenarios()
	if len(scenarios) == 0 {
		return fmt.Errorf("%w: no scenario", ErrInvalidSuite)
	}

	names := make(map[string]bool, len(scenarios))
	for _, scenario := range scenarios {
		if scenario.Name == "" {
			return fmt.Errorf("%w: scenario without a name", ErrInvalidSuite)
		}
		if names[scenario.Name] {
			return fmt.Errorf("%w: duplicate scenario %q", ErrInvalidSuite, scenario.Name)
		}
		names[scenario.Name] = true

		if scenario.InertiaTensor == (mgl64.Vec3{}) {
			continue
		}
		if err := inertia.Validate(scenario.InertiaTensor); err != nil {
			return fmt.Errorf("%w: scenario %q: %w", ErrInvalidSuite, scenario.Name, err)
		}
	}

	return nil
}
