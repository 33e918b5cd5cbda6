package layout

import "math"

// MaxDisplayWidth is the widest row DistributeWidths can scale without
// overflowing its fixed point arithmetic.
const MaxDisplayWidth = math.MaxInt / RatioScale

// DistributeWidths scales a row to displayWidth.
//
// The row height is floor(displayWidth / totalRatio). Each image starts at
// the floor of its ideal width at that height; the pixels lost to flooring are
// then handed out one at a time to the image with the largest remaining
// fractional part, which is zeroed once used. Equal remainders go to the
// leftmost image. The widths of the result always add up to displayWidth for
// a non-empty row and a display width in (0, MaxDisplayWidth]. Outside that
// range the row is returned with zero height and widths.
//
// Arithmetic is done in RatioScale fixed point so the outcome does not depend
// on floating point rounding.
func DistributeWidths(row Row, displayWidth int) RowLayout {
	out := RowLayout{
		Keys:   cloneRow(row),
		Widths: make([]int, len(row)),
	}
	if len(row) == 0 || displayWidth <= 0 || displayWidth > MaxDisplayWidth {
		return out
	}

	if total := row.Sum(); total > 0 {
		out.Height = displayWidth * RatioScale / total
	}

	remainders := make([]int, len(row))
	sum := 0
	for i, key := range row {
		scaled := out.Height * int(key)
		out.Widths[i] = scaled / RatioScale
		remainders[i] = scaled % RatioScale
		sum += out.Widths[i]
	}

	for sum < displayWidth {
		i := largestIndex(remainders)
		out.Widths[i]++
		remainders[i] = 0
		sum++
	}

	return out
}

// largestIndex returns the index of the first maximum.
func largestIndex(values []int) int {
	best := 0
	for i := 1; i < len(values); i++ {
		if values[i] > values[best] {
			best = i
		}
	}
	return best
}
