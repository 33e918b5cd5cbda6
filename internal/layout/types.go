package layout

import "math"

// RatioScale is the fixed-point scale used to quantize aspect ratios. Images
// whose ratios agree to four decimal places share a key.
const RatioScale = 10000

// RatioKey is an aspect ratio (width/height) quantized to RatioScale.
type RatioKey int

// NewRatioKey returns round(width/height * RatioScale). Non-positive
// dimensions yield a zero key.
func NewRatioKey(width, height int) RatioKey {
	if width <= 0 || height <= 0 {
		return 0
	}
	return RatioKey(math.Round(float64(width) / float64(height) * RatioScale))
}

// Ratio returns the key as a floating point aspect ratio.
func (k RatioKey) Ratio() float64 {
	return float64(k) / RatioScale
}

// Row is a contiguous run of ratio keys rendered on one gallery line.
type Row []RatioKey

// Sum returns the total of the row's keys.
func (r Row) Sum() int {
	total := 0
	for _, k := range r {
		total += int(k)
	}
	return total
}

// Partition is an ordered list of rows.
type Partition []Row

// Flatten concatenates all rows back into a single sequence.
func (p Partition) Flatten() []RatioKey {
	var out []RatioKey
	for _, row := range p {
		out = append(out, row...)
	}
	return out
}

// MaxRowSum returns the largest row sum in the partition.
func (p Partition) MaxRowSum() int {
	maxSum := 0
	for _, row := range p {
		if s := row.Sum(); s > maxSum {
			maxSum = s
		}
	}
	return maxSum
}

// RowLayout is a row scaled to the display width.
type RowLayout struct {
	Keys   Row   `json:"keys"`
	Height int   `json:"height"`
	Widths []int `json:"widths"`
}

// TotalWidth returns the sum of the row's widths.
func (l RowLayout) TotalWidth() int {
	total := 0
	for _, w := range l.Widths {
		total += w
	}
	return total
}
