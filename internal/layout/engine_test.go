package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRatioKey(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		want   RatioKey
	}{
		{"square", 100, 100, 10000},
		{"landscape 3:2", 300, 200, 15000},
		{"portrait 4:5", 400, 500, 8000},
		{"one third", 1, 3, 3333},
		{"two thirds", 2, 3, 6667},
		{"zero height", 100, 0, 0},
		{"negative width", -5, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRatioKey(tt.width, tt.height))
		})
	}
}

func TestEngineRowCount(t *testing.T) {
	e := Engine{DisplayWidth: 900, IdealHeight: 200}

	assert.Equal(t, 0, e.RowCount(nil))
	// 200px of ideal width rounds to zero rows; at least one is kept.
	assert.Equal(t, 1, e.RowCount(keys(10000)))
	assert.Equal(t, 2, e.RowCount(keys(10000, 15000, 8000, 20000, 12000, 10000)))
	assert.Equal(t, 0, Engine{DisplayWidth: 0, IdealHeight: 200}.RowCount(keys(10000)))
}

func TestEngineComputeScenario(t *testing.T) {
	e := Engine{DisplayWidth: 900, IdealHeight: 200}
	input := keys(10000, 15000, 8000, 20000, 12000, 10000)

	rows := e.Compute(input)

	require.Len(t, rows, 2)
	assert.Equal(t, Row{10000, 15000, 8000}, rows[0].Keys)
	assert.Equal(t, 272, rows[0].Height)
	assert.Equal(t, []int{274, 408, 218}, rows[0].Widths)
	assert.Equal(t, Row{20000, 12000, 10000}, rows[1].Keys)
	assert.Equal(t, 214, rows[1].Height)
	assert.Equal(t, []int{429, 257, 214}, rows[1].Widths)

	for _, row := range rows {
		assert.Equal(t, 900, row.TotalWidth())
	}
	assert.Equal(t, keys(10000, 15000, 8000, 20000, 12000, 10000), input)
}

func TestEngineComputeEmpty(t *testing.T) {
	e := Engine{DisplayWidth: 900, IdealHeight: 200}
	assert.Empty(t, e.Compute(nil))
}
