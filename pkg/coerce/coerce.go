// Package coerce infers concrete value types from the raw strings found in
// game configuration XML and converts between string and typed forms.
//
// Resolution order: an exact tag match in the override table wins, then the
// shape of the content is sniffed (_COLOR[...] triple, integer, float), and
// anything else stays a string. The parse policy is deliberately lenient:
// the files are hand-edited, so a value that fails to parse for its
// committed kind is logged and replaced with the kind's zero value instead
// of failing the import.
package coerce

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Kind identifies the concrete type of a property value.
type Kind int

const (
	String Kind = iota
	Filename
	Bool
	Int
	Float
	Color
	SequenceRef
	ObjectRef
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Filename:
		return "filename"
	case Bool:
		return "bool"
	case Int:
		return "int"
	case Float:
		return "float"
	case Color:
		return "color"
	case SequenceRef:
		return "sequenceRef"
	case ObjectRef:
		return "objectRef"
	}
	return "unknown"
}

// kindByTag is the fixed override table: these tags always coerce to the
// listed kind regardless of their content.
var kindByTag = map[string]Kind{
	"ConfigType":              String,
	"FileName":                Filename,
	"ModelFileName":           Filename,
	"Name":                    String,
	"AdaptTerrainHeight":      Bool,
	"HeightAdaptationMode":    Bool,
	"DIFFUSE_ENABLED":         Bool,
	"NORMAL_ENABLED":          Bool,
	"METALLIC_TEX_ENABLED":    Bool,
	"SEPARATE_AO_TEXTURE":     Bool,
	"HEIGHT_MAP_ENABLED":      Bool,
	"NIGHT_GLOW_ENABLED":      Bool,
	"DYE_MASK_ENABLED":        Bool,
	"cUseTerrainTinting":      Bool,
	"SELF_SHADOWING_ENABLED":  Bool,
	"WATER_CUTOUT_ENABLED":    Bool,
	"ADJUST_TO_TERRAIN_HEIGHT": Bool,
	"GLOW_ENABLED":            Bool,
	"SequenceID":              SequenceRef,
	"m_IdleSequenceID":        SequenceRef,
	"BlenderModelID":          ObjectRef,
	"BlenderParticleID":       ObjectRef,
}

// Value is one coerced property value. Exactly the field selected by Kind is
// meaningful.
type Value struct {
	Kind  Kind
	Str   string
	Bool  bool
	Int   int64
	Float float64
	Color [3]float64
}

// KindFor resolves the kind for a tag with the given raw content.
func KindFor(tag, raw string) Kind {
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	if strings.HasPrefix(raw, "_COLOR[") {
		return Color
	}
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Int
	}
	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		return Float
	}
	return String
}

// FromString coerces raw into the typed value for tag. Unparseable content
// for a type-committed tag is logged through logger and replaced with the
// kind's zero value.
func FromString(logger *slog.Logger, tag, raw string) Value {
	kind := KindFor(tag, raw)
	v := Value{Kind: kind}
	switch kind {
	case String, Filename:
		v.Str = raw
	case Bool:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			logger.Warn("cannot coerce value, using default",
				"tag", tag, "value", raw, "kind", kind.String())
			return v
		}
		v.Bool = n != 0
	case Int:
		n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			logger.Warn("cannot coerce value, using default",
				"tag", tag, "value", raw, "kind", kind.String())
			return v
		}
		v.Int = n
	case Float:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			logger.Warn("cannot coerce value, using default",
				"tag", tag, "value", raw, "kind", kind.String())
			return v
		}
		v.Float = f
	case Color:
		c, err := parseColor(raw)
		if err != nil {
			logger.Warn("cannot coerce value, using default",
				"tag", tag, "value", raw, "kind", kind.String())
			return v
		}
		v.Color = c
	case SequenceRef:
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			logger.Warn("cannot coerce sequence id, using none",
				"tag", tag, "value", raw)
			v.Str = "none"
			return v
		}
		v.Str = SequenceNameByID(id)
	case ObjectRef:
		v.Str = raw
	}
	return v
}

// ToString renders v back into its XML text form. Bools become "0"/"1",
// floats get six decimal places, colors the _COLOR[a, b, c] shape, sequence
// names their numeric IDs.
func (v Value) ToString() string {
	switch v.Kind {
	case String, Filename, ObjectRef:
		return v.Str
	case Bool:
		if v.Bool {
			return "1"
		}
		return "0"
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return formatFloat(v.Float)
	case Color:
		return fmt.Sprintf("_COLOR[%s, %s, %s]",
			formatFloat(v.Color[0]), formatFloat(v.Color[1]), formatFloat(v.Color[2]))
	case SequenceRef:
		return strconv.FormatInt(SequenceIDByName(v.Str), 10)
	}
	return v.Str
}

func parseColor(raw string) ([3]float64, error) {
	var c [3]float64
	s := strings.ReplaceAll(raw, " ", "")
	s = strings.TrimPrefix(s, "_COLOR[")
	s = strings.TrimSuffix(s, "]")
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return c, fmt.Errorf("coerce: color %q must have 3 components", raw)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return c, fmt.Errorf("coerce: color component %q: %w", p, err)
		}
		c[i] = f
	}
	return c, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
