package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Layout describes where the importer expects to find things in a sheet.
// Source workbooks are not consistent: structural labels (block/week/workout
// headers) live in column A in some variants and column B in others, so the
// classifier tries LabelColumns in priority order instead of hard-coding one.
type Layout struct {
	LabelColumns     []int // Candidate columns for structural labels, tried in order
	ExerciseCol      int   // Exercise name column
	WarmupCol        int
	WorkingSetsCol   int
	RepRangeCol      int
	RIRCols          [2]int // Up to two columns that may carry RIR; first valid wins
	RestCol          int
	SubstitutionCols [2]int
	NotesCol         int
}

// DefaultLayout matches the known workbook variants.
func DefaultLayout() Layout {
	return Layout{
		LabelColumns:     []int{0, 1},
		ExerciseCol:      1,
		WarmupCol:        2,
		WorkingSetsCol:   3,
		RepRangeCol:      4,
		RIRCols:          [2]int{5, 6},
		RestCol:          7,
		SubstitutionCols: [2]int{8, 9},
		NotesCol:         10,
	}
}

// rowKind labels one spreadsheet row.
type rowKind int

const (
	rowUnknown rowKind = iota
	rowNoise
	rowColumnHeader
	rowBlockHeader
	rowWeekHeader
	rowWeekMarker // Bare "Intro Week"/"Deload Week" label above the formal header
	rowRestDay
	rowWorkoutHeader
	rowExercise
)

// rowInfo carries the classification result plus the anchor cells that
// matched, so the builder does not have to re-scan candidate columns.
type rowInfo struct {
	kind     rowKind
	label    string // Matched structural label text (original casing)
	labelCol int    // Column the label was found in, -1 when none
}

// workoutNames is the fixed vocabulary of workout header labels. A structural
// label qualifies when it equals or is prefixed by one of these.
var workoutNames = []string{
	"full body",
	"upper",
	"lower",
	"arms/delts",
	"arms",
	"push",
	"pull",
	"legs",
}

var noiseMarkers = []string{
	"program notes",
	"copyright",
	"all rights reserved",
	"warm up protocol",
	"warm-up protocol",
}

// columnHeaderMarkers appear in the exercise-name column on rows that define
// the sheet's own column headers rather than data.
var columnHeaderMarkers = []string{
	"tracking load",
	"rir (set",
	"set 1",
	"load",
}

func isNoiseLabel(lower string) bool {
	for _, m := range noiseMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func isWorkoutLabel(lower string) bool {
	for _, name := range workoutNames {
		if lower == name || strings.HasPrefix(lower, name+" ") || strings.HasPrefix(lower, name+":") {
			return true
		}
	}
	return false
}

func isColumnHeaderCell(lower string) bool {
	if lower == "exercise" || strings.HasPrefix(lower, "exercise ") {
		return true
	}
	for _, m := range columnHeaderMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// classifyRow labels one row of the grid. Rules are tried in a fixed order
// and the first match wins; all text tests are case-insensitive.
func classifyRow(g Grid, row int, lay Layout) rowInfo {
	// Collect the candidate structural labels once.
	type anchor struct {
		col   int
		text  string
		lower string
	}
	var anchors []anchor
	for _, c := range lay.LabelColumns {
		t := g.Cell(row, c)
		if t == "" {
			continue
		}
		anchors = append(anchors, anchor{col: c, text: t, lower: strings.ToLower(t)})
	}

	for _, a := range anchors {
		if isNoiseLabel(a.lower) {
			return rowInfo{kind: rowNoise, label: a.text, labelCol: a.col}
		}
	}

	for _, a := range anchors {
		if strings.Contains(a.lower, "block") && !strings.Contains(a.lower, "exercise") {
			return rowInfo{kind: rowBlockHeader, label: a.text, labelCol: a.col}
		}
	}

	for _, a := range anchors {
		if strings.Contains(a.lower, "week") && !strings.Contains(a.lower, "per week") {
			// An un-numbered "Intro Week"/"Deload Week" line is a type marker
			// for the formal header on the next row, not a header itself.
			if _, hasNum := firstInt(a.lower); !hasNum &&
				(strings.Contains(a.lower, "intro") || strings.Contains(a.lower, "deload")) {
				return rowInfo{kind: rowWeekMarker, label: a.text, labelCol: a.col}
			}
			// Depending on the workbook variant the week header either stands
			// alone or shares the row with the "Exercise" column header.
			adjacent := strings.ToLower(g.Cell(row, lay.ExerciseCol))
			if a.col == lay.ExerciseCol || adjacent == "" || isColumnHeaderCell(adjacent) {
				return rowInfo{kind: rowWeekHeader, label: a.text, labelCol: a.col}
			}
		}
	}

	for _, a := range anchors {
		if strings.Contains(a.lower, "rest day") {
			return rowInfo{kind: rowRestDay, label: a.text, labelCol: a.col}
		}
	}

	for _, a := range anchors {
		if isWorkoutLabel(a.lower) {
			return rowInfo{kind: rowWorkoutHeader, label: a.text, labelCol: a.col}
		}
	}

	// Column header rows define the sheet's own headers, not data.
	for _, a := range anchors {
		if isColumnHeaderCell(a.lower) {
			return rowInfo{kind: rowColumnHeader, label: a.text, labelCol: a.col}
		}
	}
	if name := g.Cell(row, lay.ExerciseCol); name != "" && isColumnHeaderCell(strings.ToLower(name)) {
		return rowInfo{kind: rowColumnHeader, label: name, labelCol: lay.ExerciseCol}
	}

	// Exercise row: non-empty name cell that matched nothing structural.
	if name := g.Cell(row, lay.ExerciseCol); name != "" {
		lower := strings.ToLower(name)
		if !isWorkoutLabel(lower) && !isNoiseLabel(lower) {
			return rowInfo{kind: rowExercise, label: name, labelCol: lay.ExerciseCol}
		}
	}

	return rowInfo{kind: rowUnknown, labelCol: -1}
}

var firstIntPattern = regexp.MustCompile(`\d+`)

// firstInt extracts the first integer embedded in a label, e.g.
// "Block 2 - Strength" -> 2.
func firstInt(s string) (int, bool) {
	m := firstIntPattern.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
