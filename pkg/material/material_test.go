package material

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anno-mods/annocfg/pkg/cfgxml"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const materialXML = `<Config>
  <ConfigType>MATERIAL</ConfigType>
  <Name>wood</Name>
  <ShaderID>8</ShaderID>
  <cModelDiffTex>maps/wood_diff.psd</cModelDiffTex>
  <DIFFUSE_ENABLED>1</DIFFUSE_ENABLED>
  <NORMAL_ENABLED>0</NORMAL_ENABLED>
  <cDiffuseColor.r>0.500000</cDiffuseColor.r>
  <cDiffuseColor.g>0.250000</cDiffuseColor.g>
  <cDiffuseColor.b>1.000000</cDiffuseColor.b>
</Config>`

func decodeMaterial(t *testing.T) *Material {
	t.Helper()
	el, err := cfgxml.DecodeBytes([]byte(materialXML))
	require.NoError(t, err)
	return FromElement(el, false, testLogger())
}

func TestFromElement(t *testing.T) {
	m := decodeMaterial(t)

	assert.Equal(t, "wood", m.Name)
	assert.False(t, m.Cloth)
	assert.Equal(t, "maps/wood_diff.psd", m.Texture["diffuse"])
	assert.Equal(t, "", m.Texture["normal"])
	assert.True(t, m.Enabled["diffuse"])
	assert.False(t, m.Enabled["normal"])
	assert.Equal(t, [3]float64{0.5, 0.25, 1}, m.Colors["cDiffuseColor"])
	// Untouched colors default to white.
	assert.Equal(t, [3]float64{1, 1, 1}, m.Colors["cEmissiveColor"])

	// The untyped remainder survives in the extras.
	assert.Equal(t, "MATERIAL", m.Extra.ConfigType)
	v, ok := m.Extra.Get("ShaderID")
	require.True(t, ok)
	assert.Equal(t, int64(8), v.Int)
	// Enable flags stay in the extras so their position round-trips.
	_, ok = m.Extra.Get("DIFFUSE_ENABLED")
	assert.True(t, ok)
}

func TestToElement(t *testing.T) {
	m := decodeMaterial(t)

	parent := cfgxml.NewElement("Materials")
	el := m.ToElement(parent)
	require.Len(t, parent.Children, 1)
	assert.Same(t, el, parent.Children[0])

	assert.Equal(t, "Config", el.Tag)
	assert.Equal(t, "MATERIAL", el.GetText("ConfigType", ""))
	assert.Equal(t, "wood", el.GetText("Name", ""))
	assert.Equal(t, "8", el.GetText("ShaderID", ""))
	assert.Equal(t, "maps/wood_diff.psd", el.GetText("cModelDiffTex", ""))
	assert.Equal(t, "0.500000", el.GetText("cDiffuseColor.r", ""))
	assert.Equal(t, "1.000000", el.GetText("cEmissiveColor.b", ""))

	// Flags carried in the extras are reused, not duplicated.
	assert.Len(t, el.FindAll("DIFFUSE_ENABLED"), 1)
	assert.Equal(t, "1", el.GetText("DIFFUSE_ENABLED", ""))
	assert.Equal(t, "0", el.GetText("NORMAL_ENABLED", ""))
	// Flags the source never carried are created disabled.
	assert.Equal(t, "0", el.GetText("DYE_MASK_ENABLED", ""))

	// Empty texture slots are not emitted.
	assert.Nil(t, el.Find("cModelNormalTex"))
}

func TestClothTags(t *testing.T) {
	el, err := cfgxml.DecodeBytes([]byte(`<Config>
  <Name>sail</Name>
  <cClothDiffuseTex>maps/sail_diff.psd</cClothDiffuseTex>
  <DIFFUSE_ENABLED>1</DIFFUSE_ENABLED>
</Config>`))
	require.NoError(t, err)

	m := FromElement(el, true, testLogger())
	assert.True(t, m.Cloth)
	assert.Equal(t, "maps/sail_diff.psd", m.Texture["diffuse"])
	assert.Equal(t, "cClothDiffuseTex", m.TextureTag("diffuse"))
	assert.Equal(t, "cClothDyeMask", m.TextureTag("dye"))
	assert.Equal(t, "cHeightMap", m.TextureTag("height"))

	out := m.ToElement(nil)
	assert.Equal(t, "maps/sail_diff.psd", out.GetText("cClothDiffuseTex", ""))
	assert.Nil(t, out.Find("cModelDiffTex"))
}

func TestDefaultName(t *testing.T) {
	m := FromElement(cfgxml.NewElement("Config"), false, testLogger())
	assert.Equal(t, "Unnamed Material", m.Name)
}

func TestCacheKey(t *testing.T) {
	a := decodeMaterial(t)
	b := decodeMaterial(t)
	assert.Equal(t, a.CacheKey(), b.CacheKey())

	b.Texture["diffuse"] = "maps/other.psd"
	assert.NotEqual(t, a.CacheKey(), b.CacheKey())

	c := decodeMaterial(t)
	c.Cloth = true
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
}

func TestCacheKeyCustomProperties(t *testing.T) {
	build := func(gloss string) *Material {
		el, err := cfgxml.DecodeBytes([]byte(`<Config>
  <Name>wood</Name>
  <cModelDiffTex>maps/wood_diff.psd</cModelDiffTex>
  <DIFFUSE_ENABLED>1</DIFFUSE_ENABLED>
  <cGlossinessFactor>` + gloss + `</cGlossinessFactor>
</Config>`))
		require.NoError(t, err)
		return FromElement(el, false, testLogger())
	}

	// Materials that agree on every typed slot but differ in an extra
	// shader parameter keep distinct identities.
	dull := build("0.100000")
	shiny := build("0.900000")
	assert.NotEqual(t, dull.CacheKey(), shiny.CacheKey())

	cache := NewCache()
	assert.Same(t, dull, cache.Intern(dull))
	assert.Same(t, shiny, cache.Intern(shiny))
	assert.Equal(t, 2, cache.Len())
	assert.Equal(t, 0, cache.Hits())

	assert.Equal(t, "0.100000", dull.ToElement(nil).GetText("cGlossinessFactor", ""))
	assert.Equal(t, "0.900000", shiny.ToElement(nil).GetText("cGlossinessFactor", ""))
}

func TestCacheIntern(t *testing.T) {
	cache := NewCache()

	a := decodeMaterial(t)
	b := decodeMaterial(t)
	assert.Same(t, a, cache.Intern(a))
	assert.Same(t, a, cache.Intern(b))
	assert.Equal(t, 1, cache.Len())
	assert.Equal(t, 1, cache.Hits())

	c := decodeMaterial(t)
	c.Name = "stone"
	assert.Same(t, c, cache.Intern(c))
	assert.Equal(t, 2, cache.Len())
}

func TestQualitySuffix(t *testing.T) {
	assert.Equal(t, "maps/wood_diff_0.png", WithQualitySuffix("maps/wood_diff.psd", "0"))
	assert.Equal(t, "maps/wood_diff_2.png", WithQualitySuffix("maps/wood_diff.psd", "2"))

	assert.Equal(t, "maps/wood_diff.psd", StripQualitySuffix("maps/wood_diff_0.png", "0", ""))
	assert.Equal(t, "maps/wood_diff.dds", StripQualitySuffix("maps/wood_diff_0.png", "0", ".dds"))
	// A path without the suffix only swaps the extension back.
	assert.Equal(t, "maps/wood_diff.psd", StripQualitySuffix("maps/wood_diff.png", "0", ""))
}
