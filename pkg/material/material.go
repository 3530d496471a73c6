// Package material models the engine's material descriptors: named texture
// slots, diffuse/emissive colors and enable flags, with everything else
// preserved in a property tree. Identical materials inside one session are
// collapsed through a content-hash cache.
package material

import (
	"log/slog"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
	"github.com/anno-mods/annocfg/pkg/property"
)

// Roles of the texture slots, in the fixed order they serialize in.
var Roles = []string{"diffuse", "normal", "metallic", "ambient", "height", "night_glow", "dye"}

// tag pairs per role: the path leaf and the matching enable flag.
var modelTags = map[string][2]string{
	"diffuse":    {"cModelDiffTex", "DIFFUSE_ENABLED"},
	"normal":     {"cModelNormalTex", "NORMAL_ENABLED"},
	"metallic":   {"cModelMetallicTex", "METALLIC_TEX_ENABLED"},
	"ambient":    {"cSeparateAOTex", "SEPARATE_AO_TEXTURE"},
	"height":     {"cHeightMap", "HEIGHT_MAP_ENABLED"},
	"night_glow": {"cNightGlowMap", "NIGHT_GLOW_ENABLED"},
	"dye":        {"cDyeMask", "DYE_MASK_ENABLED"},
}

// Cloth materials store their diffuse, normal, metallic and dye textures
// under different tags; the remaining slots match the model tags.
var clothTags = map[string][2]string{
	"diffuse":    {"cClothDiffuseTex", "DIFFUSE_ENABLED"},
	"normal":     {"cClothNormalTex", "NORMAL_ENABLED"},
	"metallic":   {"cClothMetallicTex", "METALLIC_TEX_ENABLED"},
	"ambient":    {"cSeparateAOTex", "SEPARATE_AO_TEXTURE"},
	"height":     {"cHeightMap", "HEIGHT_MAP_ENABLED"},
	"night_glow": {"cNightGlowMap", "NIGHT_GLOW_ENABLED"},
	"dye":        {"cClothDyeMask", "DYE_MASK_ENABLED"},
}

// ColorNames are the color triples stored as .r/.g/.b leaves.
var ColorNames = []string{"cDiffuseColor", "cEmissiveColor"}

// Material is one material descriptor. Textures and Enabled are keyed by
// role, Colors by color name. Extra holds every field the typed slots did
// not claim, so unknown shader parameters survive a round trip.
type Material struct {
	Name    string
	Cloth   bool
	Texture map[string]string
	Enabled map[string]bool
	Colors  map[string][3]float64
	Extra   *property.Tree
}

// New returns an empty material with white colors and all slots disabled.
func New(cloth bool) *Material {
	m := &Material{
		Name:    "Unnamed Material",
		Cloth:   cloth,
		Texture: make(map[string]string, len(Roles)),
		Enabled: make(map[string]bool, len(Roles)),
		Colors:  make(map[string][3]float64, len(ColorNames)),
		Extra:   property.NewTree(nil),
	}
	for _, c := range ColorNames {
		m.Colors[c] = [3]float64{1, 1, 1}
	}
	return m
}

func (m *Material) tags() map[string][2]string {
	if m.Cloth {
		return clothTags
	}
	return modelTags
}

// TextureTag returns the XML leaf tag storing the given role's path.
func (m *Material) TextureTag(role string) string { return m.tags()[role][0] }

// EnabledTag returns the XML leaf tag storing the given role's enable flag.
func (m *Material) EnabledTag(role string) string { return m.tags()[role][1] }

// FromElement builds a material from a material element, consuming the
// name, texture path and color leaves. Enable flags are read but left in
// place; the remaining fields land in Extra.
func FromElement(el *cfgxml.Element, cloth bool, logger *slog.Logger) *Material {
	if logger == nil {
		logger = slog.Default()
	}
	m := New(cloth)
	m.Name = el.TakeText("Name", "Unnamed Material")
	for _, role := range Roles {
		tags := m.tags()[role]
		m.Texture[role] = el.TakeText(tags[0], "")
		m.Enabled[role] = el.GetText(tags[1], "0") == "1"
	}
	for _, cn := range ColorNames {
		m.Colors[cn] = [3]float64{
			el.TakeFloat(cn+".r", 1),
			el.TakeFloat(cn+".g", 1),
			el.TakeFloat(cn+".b", 1),
		}
	}
	m.Extra = property.NewTree(logger).FromElement(el)
	return m
}

// ToElement regenerates the material element under parent: the preserved
// extra fields first, then name, texture paths (empty slots skipped),
// color triples and finally the enable flags, reusing flag leaves the
// extras already carry.
func (m *Material) ToElement(parent *cfgxml.Element) *cfgxml.Element {
	tag := m.Extra.Tag
	if tag == "" {
		tag = "Config"
	}
	el := m.Extra.ToElement(tag)
	if parent != nil {
		parent.Append(el)
	}
	el.SubElement("Name").Text = m.Name
	for _, role := range Roles {
		if p := m.Texture[role]; p != "" {
			el.SubElement(m.TextureTag(role)).Text = p
		}
	}
	for _, cn := range ColorNames {
		c := m.Colors[cn]
		el.SubElement(cn+".r").Text = cfgxml.FormatFloat(c[0])
		el.SubElement(cn+".g").Text = cfgxml.FormatFloat(c[1])
		el.SubElement(cn+".b").Text = cfgxml.FormatFloat(c[2])
	}
	for _, role := range Roles {
		flag := "0"
		if m.Enabled[role] {
			flag = "1"
		}
		el.FindOrCreate(m.EnabledTag(role)).Text = flag
	}
	return el
}

// CacheKey hashes the material's identity-relevant content: name, texture
// paths, colors and enable flags in role order, plus the preserved extra
// fields. Two materials that agree on every typed slot but differ in a
// shader parameter must not collapse to one instance.
func (m *Material) CacheKey() uint64 {
	h := xxhash.New()
	h.WriteString(m.Name)
	if m.Cloth {
		h.WriteString("|cloth")
	}
	for _, role := range Roles {
		h.WriteString("|" + role + "=" + m.Texture[role])
		if m.Enabled[role] {
			h.WriteString("+")
		}
	}
	for _, cn := range ColorNames {
		c := m.Colors[cn]
		h.WriteString("|" + cn)
		h.WriteString("=" + cfgxml.FormatFloat(c[0]))
		h.WriteString("," + cfgxml.FormatFloat(c[1]))
		h.WriteString("," + cfgxml.FormatFloat(c[2]))
	}
	if m.Extra != nil {
		// ToElement has a fixed emit order, so the rendering is stable.
		// Writes into the digest can not fail.
		cfgxml.Encode(h, m.Extra.ToElement("Extra"))
	}
	return h.Sum64()
}

// WithQualitySuffix rewrites a stored texture path ("maps/wood_diff.psd")
// into the on-disk variant for the given quality level
// ("maps/wood_diff_0.png").
func WithQualitySuffix(texPath, quality string) string {
	ext := path.Ext(texPath)
	stem := strings.TrimSuffix(texPath, ext)
	return stem + "_" + quality + ".png"
}

// StripQualitySuffix is the inverse of WithQualitySuffix, restoring the
// original extension (".psd" when unknown).
func StripQualitySuffix(texPath, quality, originalExt string) string {
	ext := path.Ext(texPath)
	stem := strings.TrimSuffix(texPath, ext)
	stem = strings.TrimSuffix(stem, "_"+quality)
	if originalExt == "" {
		originalExt = ".psd"
	}
	return stem + originalExt
}
