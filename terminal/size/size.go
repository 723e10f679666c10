// Package size defines the integer types used to index and size the grid.
package size

// CellCountInt is the type used to count and index terminal cells, rows,
// and columns. It is wide enough for any realistic screen or scrollback
// size while staying 32 bits wide (half a machine word on 64-bit hosts).
type CellCountInt int32

// Max is the largest representable cell count.
const Max = CellCountInt(1<<31 - 1)
