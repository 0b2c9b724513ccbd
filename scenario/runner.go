package scenario

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/akmonengine/spin"
	"github.com/akmonengine/spin/actor"
	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"
)

// ErrAssumption is returned when the body is not in the state a scenario expects before stepping.
var ErrAssumption = errors.New("scenario assumption failed")

// Result compares the integrator output with the prediction for one scenario.
// Expected and Actual are world space angular velocities, the Local fields
// hold the same values in the body frame.
type Result struct {
	Scenario      Scenario
	Expected      mgl64.Vec3
	Actual        mgl64.Vec3
	ExpectedLocal mgl64.Vec3
	ActualLocal   mgl64.Vec3
	// Difference is Actual - Expected
	Difference mgl64.Vec3
	MaxAbsDiff float64
	// Turned is the angle (rad) the body rotated by during the last integration
	Turned float64
	// Asleep is set when the body fell asleep during the step, its velocity was zeroed
	Asleep bool
	Passed bool
}

// LogValue implements slog.LogValuer for structured logging.
func (r Result) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("scenario", r.Scenario.Name),
		slog.String("orientation", r.Scenario.Orientation.String()),
		slog.String("tensor_rotation", r.Scenario.InertiaTensorRotation.String()),
		slog.Any("tensor", r.Scenario.InertiaTensor),
		slog.Any("torque", r.Scenario.Torque),
		slog.Any("actual", r.Actual),
		slog.Any("expected", r.Expected),
		slog.Any("difference", r.Difference),
		slog.Any("actual_local", r.ActualLocal),
		slog.Any("expected_local", r.ExpectedLocal),
		slog.Float64("max_abs_diff", r.MaxAbsDiff),
		slog.Float64("turned", r.Turned),
		slog.Bool("asleep", r.Asleep),
		slog.Bool("passed", r.Passed),
	)
}

// Summary counts the outcome of a run.
type Summary struct {
	Total  int
	Passed int
	Failed int
}

// Summarize counts passed and failed results.
func Summarize(results []Result) Summary {
	summary := Summary{Total: len(results)}
	for _, result := range results {
		if result.Passed {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}

	return summary
}

// Runner sets up one body per scenario in a single world and advances it by one step.
type Runner struct {
	suite  *Suite
	logger *slog.Logger
}

// NewRunner creates a runner. A nil logger falls back to slog.Default().
func NewRunner(suite *Suite, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	return &Runner{suite: suite, logger: logger}
}

type pending struct {
	scenario      Scenario
	body          *actor.RigidBody
	expected      mgl64.Vec3
	expectedLocal mgl64.Vec3
}

// Run executes every scenario of the suite and returns one result per scenario, in order.
// A scenario whose prediction misses the threshold is a failed result, not an error.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	if err := r.suite.Validate(); err != nil {
		return nil, err
	}

	world := &spin.World{
		Gravity:  r.suite.Gravity,
		Substeps: r.suite.Substeps,
		Workers:  r.suite.Workers,

		SleepTimeThreshold:     r.suite.SleepTimeThreshold,
		SleepVelocityThreshold: r.suite.SleepVelocityThreshold,
	}
	var end spin.StepEndEvent
	world.Events.Subscribe(spin.STEP_END, func(event spin.Event) {
		end = event.(spin.StepEndEvent)
	})
	asleep := make(map[*actor.RigidBody]bool)
	world.Events.Subscribe(spin.ON_SLEEP, func(event spin.Event) {
		asleep[event.(spin.SleepEvent).Body] = true
	})

	scenarios := r.suite.Scenarios()
	cases := make([]pending, 0, len(scenarios))
	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c, err := r.prepare(scenario)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", scenario.Name, err)
		}
		world.AddBody(c.body)
		cases = append(cases, c)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	world.Step(r.suite.Timestep)
	if end.Step != 1 {
		return nil, fmt.Errorf("%w: expected exactly one physics step, got %d", ErrAssumption, end.Step)
	}
	if end.Dt != r.suite.Timestep {
		return nil, fmt.Errorf("%w: stepped by %v, expected %v", ErrAssumption, end.Dt, r.suite.Timestep)
	}

	results := make([]Result, 0, len(cases))
	for _, c := range cases {
		result := r.compare(c)
		result.Asleep = asleep[c.body]
		if result.Passed {
			r.logger.Info("scenario passed", "result", result)
		} else {
			r.logger.Warn("scenario failed: at least one axis differs more than the threshold",
				"result", result,
				"threshold", r.suite.Threshold,
			)
		}
		results = append(results, result)
	}

	return results, nil
}

// prepare resets a body to the scenario state, applies the torque and predicts the outcome
func (r *Runner) prepare(scenario Scenario) (pending, error) {
	shape, err := r.suite.Body.NewShape()
	if err != nil {
		return pending{}, err
	}
	bodyType := actor.BodyTypeDynamic
	if scenario.Static {
		bodyType = actor.BodyTypeStatic
	}

	body := actor.NewRigidBody(actor.NewTransform(), shape, bodyType, r.suite.Body.Density)
	if !scenario.Static {
		if scenario.InertiaTensor != (mgl64.Vec3{}) {
			if err := body.SetInertiaTensor(scenario.InertiaTensor); err != nil {
				return pending{}, err
			}
		}
		scenario.InertiaTensor = body.InertiaTensor
		body.SetInertiaTensorRotation(scenario.InertiaTensorRotation.Quat())
	}
	// no drag, it would add a term the prediction does not model
	body.Material.LinearDamping = 0
	body.Material.AngularDamping = 0

	if body.AccumulatedForce() != (mgl64.Vec3{}) || body.AccumulatedTorque() != (mgl64.Vec3{}) {
		return pending{}, fmt.Errorf("%w: forces accumulated before reset", ErrAssumption)
	}
	body.Reset(scenario.Orientation.Quat())
	if body.Velocity != (mgl64.Vec3{}) || body.AngularVelocity != (mgl64.Vec3{}) {
		return pending{}, fmt.Errorf("%w: body not at rest after reset", ErrAssumption)
	}

	applied := scenario.Torque
	if scenario.Relative {
		body.AddRelativeTorque(scenario.Torque)
		applied = body.Transform.LocalToWorld(scenario.Torque)
	} else {
		body.AddTorque(scenario.Torque)
	}
	if scenario.Static {
		applied = mgl64.Vec3{}
	}

	accumulated := body.AccumulatedTorque()
	if accumulated != applied {
		return pending{}, fmt.Errorf("%w: accumulated torque %v, applied %v", ErrAssumption, accumulated, applied)
	}

	c := pending{scenario: scenario, body: body}
	if !scenario.Static {
		tensor := body.Tensor()
		c.expected = tensor.AngularVelocityChange(body.Transform.Rotation, accumulated, r.suite.Timestep)
		c.expectedLocal = tensor.AngularVelocityChangeLocal(body.Transform.Rotation, accumulated, r.suite.Timestep)
	}

	return c, nil
}

func (r *Runner) compare(c pending) Result {
	actual := c.body.AngularVelocity
	difference := actual.Sub(c.expected)

	passed := true
	for _, d := range difference {
		if !(math.Abs(d) < r.suite.Threshold) {
			passed = false
		}
	}

	return Result{
		Scenario:      c.scenario,
		Expected:      c.expected,
		Actual:        actual,
		ExpectedLocal: c.expectedLocal,
		ActualLocal:   c.body.LocalAngularVelocity(),
		Difference:    difference,
		MaxAbsDiff:    floats.Distance(actual[:], c.expected[:], math.Inf(1)),
		Turned:        rotationAngle(c.body.RotationDelta()),
		Passed:        passed,
	}
}

func rotationAngle(q mgl64.Quat) float64 {
	return 2 * math.Atan2(q.V.Len(), math.Abs(q.W))
}
