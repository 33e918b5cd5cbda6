package layout

import "math"

// Engine lays out a gallery for a fixed display width and ideal row height.
type Engine struct {
	DisplayWidth int
	IdealHeight  int
}

// IdealWidth returns the total width, in pixels, of all keys placed side by
// side at the ideal height.
func (e Engine) IdealWidth(keys []RatioKey) float64 {
	total := 0.0
	for _, k := range keys {
		total += float64(e.IdealHeight) * k.Ratio()
	}
	return total
}

// RowCount returns round(IdealWidth / DisplayWidth), raised to 1 when there
// is at least one key so a small gallery still gets a row.
func (e Engine) RowCount(keys []RatioKey) int {
	if len(keys) == 0 || e.DisplayWidth <= 0 {
		return 0
	}
	rows := int(math.Round(e.IdealWidth(keys) / float64(e.DisplayWidth)))
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Partition splits keys into RowCount balanced rows.
func (e Engine) Partition(keys []RatioKey) Partition {
	return LinearPartition(keys, e.RowCount(keys))
}

// Compute partitions keys and scales every row to the display width.
func (e Engine) Compute(keys []RatioKey) []RowLayout {
	rows := e.Partition(keys)
	out := make([]RowLayout, 0, len(rows))
	for _, row := range rows {
		out = append(out, DistributeWidths(row, e.DisplayWidth))
	}
	return out
}
