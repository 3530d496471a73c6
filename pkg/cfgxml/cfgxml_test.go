package cfgxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<Config>
  <ConfigType>MODEL</ConfigType>
  <FileName>data/graphics/hull.rdm</FileName>
  <Transformer>
    <Config>
      <ConfigType>ORIENTATION_TRANSFORM</ConfigType>
      <Position.x>1.500000</Position.x>
      <Scale>2.000000</Scale>
    </Config>
    <Config>
      <ConfigType>FILE_TRANSFORM</ConfigType>
      <Position.x>9.000000</Position.x>
    </Config>
  </Transformer>
</Config>`

func TestDecode(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "Config", doc.Tag)
	assert.Len(t, doc.Children, 3)
	assert.Equal(t, "MODEL", doc.GetText("ConfigType", ""))
	assert.Equal(t, "data/graphics/hull.rdm", doc.GetText("FileName", ""))
	assert.True(t, doc.Children[0].IsLeaf())
	assert.False(t, doc.Children[2].IsLeaf())
}

func TestDecodeErrors(t *testing.T) {
	_, err := DecodeBytes([]byte(""))
	assert.Error(t, err)

	_, err = DecodeBytes([]byte("<a><b></a></b>"))
	assert.Error(t, err)
}

func TestFindWithPredicate(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	found := doc.Find("Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']/Position.x")
	require.NotNil(t, found)
	assert.Equal(t, "1.500000", found.Text)

	other := doc.Find("Transformer/Config[ConfigType = 'FILE_TRANSFORM']/Position.x")
	require.NotNil(t, other)
	assert.Equal(t, "9.000000", other.Text)

	assert.Nil(t, doc.Find("Transformer/Config[ConfigType = 'NO_SUCH_TRANSFORM']"))
	assert.Nil(t, doc.Find("Missing/Path"))
}

func TestFindAll(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	configs := doc.FindAll("Transformer/Config")
	assert.Len(t, configs, 2)
	assert.Equal(t, "ORIENTATION_TRANSFORM", configs[0].GetText("ConfigType", ""))
	assert.Equal(t, "FILE_TRANSFORM", configs[1].GetText("ConfigType", ""))
}

func TestTakeText(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	got := doc.TakeText("FileName", "")
	assert.Equal(t, "data/graphics/hull.rdm", got)
	assert.Equal(t, "", doc.GetText("FileName", ""))
	assert.Equal(t, "fallback", doc.TakeText("FileName", "fallback"))
}

func TestTakeFloatNested(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	path := "Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']/Scale"
	assert.Equal(t, 2.0, doc.TakeFloat(path, 1))
	// The leaf is consumed, the surrounding config stays.
	assert.Equal(t, 1.0, doc.TakeFloat(path, 1))
	assert.NotNil(t, doc.Find("Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']"))
}

func TestGetFloatUnparseable(t *testing.T) {
	doc := NewElement("Config")
	doc.SubElement("Scale").Text = "not a number"
	assert.Equal(t, 7.0, doc.GetFloat("Scale", 7))
}

func TestFindOrCreate(t *testing.T) {
	doc := NewElement("Config")
	created := doc.FindOrCreate("Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']/Position.x")
	created.Text = "3.000000"

	// The predicate child is materialized, so the same path resolves again.
	found := doc.Find("Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']/Position.x")
	require.NotNil(t, found)
	assert.Same(t, created, found)

	// Repeated calls reuse the existing segments.
	again := doc.FindOrCreate("Transformer/Config[ConfigType = 'ORIENTATION_TRANSFORM']/Position.x")
	assert.Same(t, created, again)
	assert.Len(t, doc.FindAll("Transformer/Config"), 1)
}

func TestRemove(t *testing.T) {
	doc := NewElement("Config")
	a := doc.SubElement("A")
	b := doc.SubElement("B")

	assert.True(t, doc.Remove(a))
	assert.False(t, doc.Remove(a))
	assert.Equal(t, []*Element{b}, doc.Children)
}

func TestCloneAndEqual(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	cp := doc.Clone()
	assert.True(t, doc.Equal(cp))

	cp.Find("Transformer/Config/Position.x").Text = "0.000000"
	assert.False(t, doc.Equal(cp))
}

func TestEncodeRoundTrip(t *testing.T) {
	doc, err := DecodeBytes([]byte(sampleDoc))
	require.NoError(t, err)

	data, err := EncodeBytes(doc)
	require.NoError(t, err)

	back, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back))
}

func TestAttrsSurviveRoundTrip(t *testing.T) {
	doc, err := DecodeBytes([]byte(`<Info version="2"><Sequence>0</Sequence></Info>`))
	require.NoError(t, err)
	require.Len(t, doc.Attrs, 1)
	assert.Equal(t, Attr{Name: "version", Value: "2"}, doc.Attrs[0])

	data, err := EncodeBytes(doc)
	require.NoError(t, err)
	back, err := DecodeBytes(data)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1.500000", FormatFloat(1.5))
	assert.Equal(t, "0.000000", FormatFloat(0))
	assert.Equal(t, "-2.000000", FormatFloat(-2))
}
