package scenario

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
)

// ResultCSV is the flat CSV row of a Result.
type ResultCSV struct {
	Name            string  `csv:"name"`
	TensorX         float64 `csv:"tensor_x"`
	TensorY         float64 `csv:"tensor_y"`
	TensorZ         float64 `csv:"tensor_z"`
	TensorRotationX float64 `csv:"tensor_rotation_x"`
	TensorRotationY float64 `csv:"tensor_rotation_y"`
	TensorRotationZ float64 `csv:"tensor_rotation_z"`
	OrientationX    float64 `csv:"orientation_x"`
	OrientationY    float64 `csv:"orientation_y"`
	OrientationZ    float64 `csv:"orientation_z"`
	TorqueX         float64 `csv:"torque_x"`
	TorqueY         float64 `csv:"torque_y"`
	TorqueZ         float64 `csv:"torque_z"`
	Relative        bool    `csv:"relative"`
	Static          bool    `csv:"static"`
	ExpectedX       float64 `csv:"expected_x"`
	ExpectedY       float64 `csv:"expected_y"`
	ExpectedZ       float64 `csv:"expected_z"`
	ActualX         float64 `csv:"actual_x"`
	ActualY         float64 `csv:"actual_y"`
	ActualZ         float64 `csv:"actual_z"`
	ActualLocalX    float64 `csv:"actual_local_x"`
	ActualLocalY    float64 `csv:"actual_local_y"`
	ActualLocalZ    float64 `csv:"actual_local_z"`
	MaxAbsDiff      float64 `csv:"max_abs_diff"`
	Turned          float64 `csv:"turned"`
	Asleep          bool    `csv:"asleep"`
	Passed          bool    `csv:"passed"`
}

// ToCSV converts the result to its CSV row.
func (r Result) ToCSV() ResultCSV {
	s := r.Scenario

	return ResultCSV{
		Name:            s.Name,
		TensorX:         s.InertiaTensor.X(),
		TensorY:         s.InertiaTensor.Y(),
		TensorZ:         s.InertiaTensor.Z(),
		TensorRotationX: s.InertiaTensorRotation.X,
		TensorRotationY: s.InertiaTensorRotation.Y,
		TensorRotationZ: s.InertiaTensorRotation.Z,
		OrientationX:    s.Orientation.X,
		OrientationY:    s.Orientation.Y,
		OrientationZ:    s.Orientation.Z,
		TorqueX:         s.Torque.X(),
		TorqueY:         s.Torque.Y(),
		TorqueZ:         s.Torque.Z(),
		Relative:        s.Relative,
		Static:          s.Static,
		ExpectedX:       r.Expected.X(),
		ExpectedY:       r.Expected.Y(),
		ExpectedZ:       r.Expected.Z(),
		ActualX:         r.Actual.X(),
		ActualY:         r.Actual.Y(),
		ActualZ:         r.Actual.Z(),
		ActualLocalX:    r.ActualLocal.X(),
		ActualLocalY:    r.ActualLocal.Y(),
		ActualLocalZ:    r.ActualLocal.Z(),
		MaxAbsDiff:      r.MaxAbsDiff,
		Turned:          r.Turned,
		Asleep:          r.Asleep,
		Passed:          r.Passed,
	}
}

// WriteReport writes one CSV row per result, with a header.
func WriteReport(w io.Writer, results []Result) error {
	records := make([]ResultCSV, 0, len(results))
	for _, result := range results {
		records = append(records, result.ToCSV())
	}

	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	return nil
}

// WriteReportFile creates the file at path and writes the report into it.
func WriteReportFile(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return WriteReport(f, results)
}
