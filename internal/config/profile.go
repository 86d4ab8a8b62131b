package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"camcore/cnc"
	"camcore/gcode"
	"camcore/svg"
)

// Profile describes a machine and its tooling: the defaults applied to
// every vector and relief job it runs.
//
//	name: router
//	tolerance: 0.05
//	vector:
//	  toolDiameter: 3.175
//	  targetDepth: 3
//	  stepDown: 1
//	relief:
//	  coneHalfAngle: 15
type Profile struct {
	Name      string            `yaml:"name"`
	Tolerance float64           `yaml:"tolerance"`
	Vector    cnc.VectorOptions `yaml:"vector"`
	Relief    cnc.ReliefOptions `yaml:"relief"`
}

// DefaultProfile is used when no profile file is given.
func DefaultProfile() *Profile {
	return &Profile{
		Name:      "default",
		Tolerance: svg.DefaultTolerance,
		Vector: cnc.VectorOptions{
			Type:         gcode.TypeCNC,
			Mode:         cnc.ModePath,
			ToolDiameter: 3,
			TargetDepth:  1,
			StepDown:     1,
			JogSpeed:     1000,
			WorkSpeed:    300,
			PlungeSpeed:  120,
			SafetyHeight: 5,
			StopHeight:   10,
		},
		Relief: cnc.ReliefOptions{
			Type:          gcode.TypeCNC,
			ConeHalfAngle: 15,
			TargetDepth:   2,
			StepDown:      1,
			SafetyHeight:  5,
			StopHeight:    10,
			JogSpeed:      1000,
			WorkSpeed:     300,
			PlungeSpeed:   120,
			PixelSize:     cnc.DefaultPixelSize,
		},
	}
}

// ReadProfile decodes a YAML profile from r. Keys missing from the
// document keep their DefaultProfile values.
func ReadProfile(r io.Reader) (*Profile, error) {
	p := DefaultProfile()
	if err := yaml.NewDecoder(r).Decode(p); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config: decode profile: %w", err)
	}
	return p, nil
}

// LoadProfile reads the profile at path, or returns DefaultProfile when
// path is empty.
func LoadProfile(path string) (*Profile, error) {
	if path == "" {
		return DefaultProfile(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open profile: %w", err)
	}
	defer f.Close()
	return ReadProfile(f)
}
