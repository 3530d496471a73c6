// Package transform converts position/rotation/scale triples between the
// engine's coordinate convention and the host scene-graph convention, and
// mirrors mesh geometry consistently with that conversion.
package transform

import (
	"fmt"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
)

// Space tags which coordinate convention a transform currently represents.
type Space int

const (
	// EngineSpace is the convention used by the XML data.
	EngineSpace Space = iota
	// HostSpace is the convention used by the host scene graph.
	HostSpace
)

func (s Space) String() string {
	if s == EngineSpace {
		return "engine"
	}
	return "host"
}

// Transform holds a location, rotation and scale tagged with the space they
// are expressed in. Rotation is either a wxyz quaternion or, for node kinds
// that only ever rotate around the vertical axis, a single set of Euler
// angles with only Y used. The two rotation modes are mutually exclusive.
type Transform struct {
	Location [3]float64
	Rotation [4]float64 // w, x, y, z
	RotEuler [3]float64
	Euler    bool
	Scale    [3]float64
	Space    Space

	// Mirror selects the X-mirrored variant of the conversion, matching
	// mirrored mesh geometry.
	Mirror bool
}

// New returns an identity transform in engine space.
func New() *Transform {
	return &Transform{
		Rotation: [4]float64{1, 0, 0, 0},
		Scale:    [3]float64{1, 1, 1},
		Space:    EngineSpace,
	}
}

// Component returns the value of a named transform component, e.g.
// "location.x" or "rotation.w".
func (t *Transform) Component(name string) (float64, error) {
	switch name {
	case "location.x":
		return t.Location[0], nil
	case "location.y":
		return t.Location[1], nil
	case "location.z":
		return t.Location[2], nil
	case "rotation.w":
		return t.Rotation[0], nil
	case "rotation.x":
		return t.Rotation[1], nil
	case "rotation.y":
		return t.Rotation[2], nil
	case "rotation.z":
		return t.Rotation[3], nil
	case "rotation_euler.x":
		return t.RotEuler[0], nil
	case "rotation_euler.y":
		return t.RotEuler[1], nil
	case "rotation_euler.z":
		return t.RotEuler[2], nil
	case "scale.x":
		return t.Scale[0], nil
	case "scale.y":
		return t.Scale[1], nil
	case "scale.z":
		return t.Scale[2], nil
	}
	return 0, fmt.Errorf("transform: unknown component %q", name)
}

// FromElement reads transform components out of el (removing the consumed
// leaves) using paths, a map from component name to slash path. The result
// is tagged as engine space. With enforceEqualScale all scale axes are
// forced to the X value; with euler only the single-Y Euler angle is read.
func FromElement(el *cfgxml.Element, paths map[string]string, enforceEqualScale, euler bool) *Transform {
	t := New()
	read := func(component string, def float64) float64 {
		path, ok := paths[component]
		if !ok {
			return def
		}
		return el.TakeFloat(path, def)
	}

	t.Location[0] = read("location.x", 0)
	t.Location[1] = read("location.y", 0)
	t.Location[2] = read("location.z", 0)

	t.Scale[0] = read("scale.x", 1)
	t.Scale[1] = read("scale.y", 1)
	t.Scale[2] = read("scale.z", 1)
	if enforceEqualScale {
		t.Scale[1] = t.Scale[0]
		t.Scale[2] = t.Scale[0]
	}

	if euler {
		t.RotEuler[0] = read("rotation_euler.x", 0)
		t.RotEuler[1] = read("rotation_euler.y", 0)
		t.RotEuler[2] = read("rotation_euler.z", 0)
		t.Euler = true
	} else {
		t.Rotation[0] = read("rotation.w", 1)
		t.Rotation[1] = read("rotation.x", 0)
		t.Rotation[2] = read("rotation.y", 0)
		t.Rotation[3] = read("rotation.z", 0)
	}

	t.Space = EngineSpace
	return t
}

// componentOrder fixes the order regenerated transform leaves are written
// in: location, rotation, Euler rotation, scale.
var componentOrder = []string{
	"location.x", "location.y", "location.z",
	"rotation.w", "rotation.x", "rotation.y", "rotation.z",
	"rotation_euler.x", "rotation_euler.y", "rotation_euler.z",
	"scale.x", "scale.y", "scale.z",
}

// ApplyToElement writes the transform components into el using paths,
// formatting every value with six decimal places. Components are written
// in a fixed order so repeated serializations of the same transform yield
// identical documents. Existing leaves at the component paths are reused,
// missing ones created.
func (t *Transform) ApplyToElement(el *cfgxml.Element, paths map[string]string) error {
	for component := range paths {
		if component == "base_path" {
			continue
		}
		if _, err := t.Component(component); err != nil {
			return err
		}
	}
	for _, component := range componentOrder {
		path, ok := paths[component]
		if !ok {
			continue
		}
		v, err := t.Component(component)
		if err != nil {
			return err
		}
		el.FindOrCreate(path).Text = cfgxml.FormatFloat(v)
	}
	return nil
}

// ToHostCoords converts the transform into host space. Calling it on a
// transform already in host space is a no-op.
func (t *Transform) ToHostCoords() {
	if t.Space == HostSpace {
		return
	}
	if t.Mirror {
		t.Location = [3]float64{-t.Location[0], -t.Location[2], t.Location[1]}
		t.Rotation = [4]float64{t.Rotation[0], t.Rotation[1], t.Rotation[3], -t.Rotation[2]}
	} else {
		t.Location = [3]float64{t.Location[0], -t.Location[2], t.Location[1]}
		t.Rotation = [4]float64{t.Rotation[0], t.Rotation[1], t.Rotation[3], t.Rotation[2]}
	}
	t.RotEuler = [3]float64{t.RotEuler[0], t.RotEuler[2], t.RotEuler[1]}
	t.Scale = [3]float64{t.Scale[0], t.Scale[2], t.Scale[1]}
	t.Space = HostSpace
}

// ToEngineCoords converts the transform into engine space. Calling it on a
// transform already in engine space is a no-op. Composed with ToHostCoords
// it restores the original component values.
func (t *Transform) ToEngineCoords() {
	if t.Space == EngineSpace {
		return
	}
	if t.Mirror {
		t.Location = [3]float64{-t.Location[0], t.Location[2], -t.Location[1]}
		t.Rotation = [4]float64{t.Rotation[0], t.Rotation[1], -t.Rotation[3], t.Rotation[2]}
	} else {
		t.Location = [3]float64{t.Location[0], t.Location[2], -t.Location[1]}
		t.Rotation = [4]float64{t.Rotation[0], t.Rotation[1], t.Rotation[3], t.Rotation[2]}
	}
	t.RotEuler = [3]float64{t.RotEuler[0], t.RotEuler[2], t.RotEuler[1]}
	t.Scale = [3]float64{t.Scale[0], t.Scale[2], t.Scale[1]}
	t.Space = EngineSpace
}

// EnforceEqualScale forces all scale axes to the X value and reports
// whether the axes disagreed. A disagreement is a data-quality issue the
// caller should log, never an error.
func (t *Transform) EnforceEqualScale() bool {
	equal := t.Scale[1] == t.Scale[0] && t.Scale[2] == t.Scale[0]
	t.Scale[1] = t.Scale[0]
	t.Scale[2] = t.Scale[0]
	return !equal
}
