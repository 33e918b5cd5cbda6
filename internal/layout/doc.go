// Package layout computes gap-less, equal-height gallery rows from image
// aspect ratios.
//
// The pipeline has two steps. LinearPartition splits the ordered sequence of
// ratio keys into contiguous rows so that the widest row (in ideal-height
// pixels) is as narrow as possible. DistributeWidths then scales each row to
// the display width, choosing one integer height for the row and integer
// widths that add up to the display width exactly, using the largest
// remainder method. Engine ties both steps together.
package layout
