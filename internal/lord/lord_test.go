package lord

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalWeight(t *testing.T) {
	sum := 0
	for _, l := range All() {
		require.Positive(t, l.Weight())
		sum += l.Weight()
	}
	assert.Equal(t, TotalWeight, sum)
}

func TestRotate(t *testing.T) {
	tests := []struct {
		from Lord
		want []Lord
	}{
		{Ketu, []Lord{Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn, Mercury}},
		{Moon, []Lord{Moon, Mars, Rahu, Jupiter, Saturn, Mercury, Ketu, Venus, Sun}},
		// 8th lord wraps to the 1st and 2nd before completing.
		{Saturn, []Lord{Saturn, Mercury, Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter}},
		{Mercury, []Lord{Mercury, Ketu, Venus, Sun, Moon, Mars, Rahu, Jupiter, Saturn}},
	}

	for _, tt := range tests {
		t.Run(tt.from.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Rotate(tt.from))
		})
	}
}

func TestRotateNoRepeats(t *testing.T) {
	for _, from := range All() {
		seen := map[Lord]bool{}
		for _, l := range Rotate(from) {
			assert.False(t, seen[l], "duplicate %s rotating from %s", l, from)
			seen[l] = true
		}
		assert.Len(t, seen, Count)
	}
}

func TestRotateInvalidPanics(t *testing.T) {
	assert.Panics(t, func() { Rotate(Lord(Count)) })
}

func TestNextWraps(t *testing.T) {
	assert.Equal(t, Ketu, Mercury.Next())
	assert.Equal(t, Venus, Ketu.Next())
}

func TestParse(t *testing.T) {
	for _, name := range []string{"Moon", "moon", "MOON", "mOoN"} {
		l, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, Moon, l)
	}

	_, err := Parse("Pluto")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Pluto")
}

func TestString(t *testing.T) {
	assert.Equal(t, "Jupiter", Jupiter.String())
	assert.Equal(t, "Lord(42)", Lord(42).String())
}

func TestJSONText(t *testing.T) {
	data, err := json.Marshal(map[string]Lord{"lord": Rahu})
	require.NoError(t, err)
	assert.JSONEq(t, `{"lord":"Rahu"}`, string(data))

	var got struct {
		Lord Lord `json:"lord"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"lord":"venus"}`), &got))
	assert.Equal(t, Venus, got.Lord)
}
