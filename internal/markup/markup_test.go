package markup

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `<?xml version="1.0"?>
<Project name="Demo" version="510">
  <Individual name="Adult" species="Human" gender="Male">
    <Container name="Organism">
      <Parameter name="Weight" value="73"/>
    </Container>
  </Individual>
</Project>`

func TestParse(t *testing.T) {
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "Project", root.Name())
	assert.Equal(t, "510", root.Attr("version"))

	ind := root.Child("Individual")
	require.NotNil(t, ind)
	assert.Equal(t, "Human", ind.Attr("species"))
	assert.Empty(t, ind.Text)

	params := root.Descendants("Parameter")
	require.Len(t, params, 1)
	v, ok, err := params[0].FloatAttr("value")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 73.0, v)
}

func TestAttributes(t *testing.T) {
	e := New("Formula", "type", "Distributed", "distribution", "Normal")

	e.SetAttr("type", "Constant")
	assert.Equal(t, "Constant", e.Attr("type"))
	assert.Len(t, e.Attrs, 2)

	assert.True(t, e.RemoveAttr("distribution"))
	assert.False(t, e.RemoveAttr("distribution"))
	_, ok := e.LookupAttr("distribution")
	assert.False(t, ok)

	e.SetFloatAttr("value", 0.1)
	assert.Equal(t, "0.1", e.Attr("value"))

	_, _, err := New("P", "value", "abc").FloatAttr("value")
	assert.Error(t, err)

	assert.True(t, New("P").BoolAttr("editable", true))
	assert.False(t, New("P", "editable", "false").BoolAttr("editable", true))
}

func TestWriteParseRoundTrip(t *testing.T) {
	root := New("Project", "name", "Demo", "version", "720").Add(
		New("Compound", "name", "Midazolam").Add(
			New("Parameter", "name", "Lipophilicity", "value", "3.9"),
		),
	)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, root))

	got, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, "720", got.Attr("version"))
	require.Len(t, got.Descendants("Parameter"), 1)
	assert.Equal(t, "3.9", got.Descendants("Parameter")[0].Attr("value"))
}
