package scene

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixed_Decode(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantSet   bool
		wantMixed bool
		want      float64
	}{
		{name: "number", input: `8`, wantSet: true, want: 8},
		{name: "string marker", input: `"MIXED"`, wantSet: true, wantMixed: true},
		{name: "object marker", input: `{"mixed": true}`, wantSet: true, wantMixed: true},
		{name: "null", input: `null`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Mixed[float64]
			require.NoError(t, json.Unmarshal([]byte(tt.input), &m))
			assert.Equal(t, tt.wantSet, m.IsSet())
			assert.Equal(t, tt.wantMixed, m.IsMixed())
			assert.Equal(t, tt.want, m.Value())
		})
	}
}

func TestMixed_GetOnMixed(t *testing.T) {
	m := MixedValue[string]()
	v, ok := m.Get()
	assert.False(t, ok)
	assert.Equal(t, "", v)
}

func TestMixed_RoundTripMarker(t *testing.T) {
	data, err := json.Marshal(MixedValue[[]Paint]())
	require.NoError(t, err)
	assert.Equal(t, `"MIXED"`, string(data))

	data, err = json.Marshal(Resolved("S:1"))
	require.NoError(t, err)
	assert.Equal(t, `"S:1"`, string(data))
}

func TestMixed_InvalidValue(t *testing.T) {
	var m Mixed[float64]
	assert.Error(t, json.Unmarshal([]byte(`"eight"`), &m))
}
