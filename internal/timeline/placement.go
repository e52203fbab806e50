package timeline

import (
	"math"
	"sort"
)

// openEnd marks the unbounded trailing gap in a row.
const openEnd = math.MaxInt32

// Position is a resolved timeline slot.
type Position struct {
	From int `json:"from"`
	Row  int `json:"row"`
}

// Gap is a free interval [Start, End) within one row.
type Gap struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FindGapsInRow returns the free intervals between the overlays of one row,
// ordered by start: a leading gap when the first overlay does not start at
// frame 0, and a gap wherever consecutive overlays leave space. The trailing
// gap after the last overlay is never reported.
func FindGapsInRow(rowOverlays []Overlay) []Gap {
	if len(rowOverlays) == 0 {
		return nil
	}
	sorted := sortedByFrom(rowOverlays)

	var gaps []Gap
	cursor := 0
	for _, o := range sorted {
		if o.From > cursor {
			gaps = append(gaps, Gap{Start: cursor, End: o.From})
		}
		if end := o.End(); end > cursor {
			cursor = end
		}
	}
	return gaps
}

// FindNextAvailablePosition finds a free slot for a new overlay: rows are
// scanned from 0 upward and the first row with room yields the earliest
// frame after its last occupied interval. An empty row yields frame 0.
// First-fit, not best-fit; the returned From may lie beyond totalDuration
// and callers are expected to extend the composition.
func FindNextAvailablePosition(overlays []Overlay, maxRows, totalDuration int) Position {
	for row := 0; row < maxRows; row++ {
		rowOverlays := filterRow(overlays, row)
		if len(rowOverlays) == 0 {
			return Position{From: 0, Row: row}
		}
		end := rowEnd(rowOverlays)
		if end < totalDuration {
			return Position{From: end, Row: row}
		}
	}
	// Every row is occupied through the composition end; append to row 0.
	return Position{From: rowEnd(filterRow(overlays, 0)), Row: 0}
}

// CheckOverlapAndAdjust resolves the final slot for an overlay after a drag.
// Starting at newRow and scanning toward maxRows, each row's gaps (with an
// unbounded trailing gap, excluding the overlay being moved) are searched for
// the first gap containing newFrom with room for newDuration; newFrom is
// clamped down when the duration would overflow the gap's bound. When no row
// fits, the overlay lands immediately after the last overlay in the final
// row. First-fit with clamping, deterministic for identical inputs.
func CheckOverlapAndAdjust(overlays []Overlay, currentID int64, newFrom, newDuration, newRow, maxRows int) Position {
	if newDuration < 1 {
		newDuration = 1
	}
	if newFrom < 0 {
		newFrom = 0
	}
	if newRow < 0 {
		newRow = 0
	}
	if newRow >= maxRows {
		newRow = maxRows - 1
	}

	for row := newRow; row < maxRows; row++ {
		others := excludeID(filterRow(overlays, row), currentID)
		for _, gap := range gapsWithTail(others) {
			if newFrom < gap.Start || newFrom >= gap.End {
				continue
			}
			if gap.End-gap.Start < newDuration {
				continue
			}
			from := newFrom
			if from+newDuration > gap.End {
				from = gap.End - newDuration
			}
			if from < gap.Start {
				from = gap.Start
			}
			return Position{From: from, Row: row}
		}
	}

	lastRow := maxRows - 1
	others := excludeID(filterRow(overlays, lastRow), currentID)
	return Position{From: rowEnd(others), Row: lastRow}
}

// gapsWithTail is FindGapsInRow plus the unbounded gap after the last
// overlay; an empty row is one open gap from frame 0.
func gapsWithTail(rowOverlays []Overlay) []Gap {
	if len(rowOverlays) == 0 {
		return []Gap{{Start: 0, End: openEnd}}
	}
	gaps := FindGapsInRow(rowOverlays)
	return append(gaps, Gap{Start: rowEnd(rowOverlays), End: openEnd})
}

func filterRow(overlays []Overlay, row int) []Overlay {
	var out []Overlay
	for _, o := range overlays {
		if o.Row == row {
			out = append(out, o)
		}
	}
	return out
}

func excludeID(overlays []Overlay, id int64) []Overlay {
	out := overlays[:0:0]
	for _, o := range overlays {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func rowEnd(rowOverlays []Overlay) int {
	end := 0
	for _, o := range rowOverlays {
		if e := o.End(); e > end {
			end = e
		}
	}
	return end
}

func sortedByFrom(overlays []Overlay) []Overlay {
	sorted := make([]Overlay, len(overlays))
	copy(sorted, overlays)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })
	return sorted
}
