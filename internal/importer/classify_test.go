package importer

import "testing"

func TestClassifyRow(t *testing.T) {
	lay := DefaultLayout()
	tests := []struct {
		name string
		row  []string
		want rowKind
	}{
		{"block header in column A", []string{"Block 1 - Hypertrophy"}, rowBlockHeader},
		{"block header in column B", []string{"", "Block 2"}, rowBlockHeader},
		{"standalone week header", []string{"Week 1"}, rowWeekHeader},
		{"week header sharing row with column headers", []string{"Week 3", "Exercise", "Warm up sets"}, rowWeekHeader},
		{"bare intro week marker", []string{"Intro Week"}, rowWeekMarker},
		{"bare deload week marker", []string{"Deload Week"}, rowWeekMarker},
		{"numbered deload week is a header", []string{"Week 5 Deload"}, rowWeekHeader},
		{"rest day", []string{"Rest Day"}, rowRestDay},
		{"workout header exact", []string{"Upper"}, rowWorkoutHeader},
		{"workout header with suffix", []string{"Lower 2"}, rowWorkoutHeader},
		{"workout header with colon", []string{"Push: Chest Focus"}, rowWorkoutHeader},
		{"full body workout", []string{"Full Body 1"}, rowWorkoutHeader},
		{"column header row", []string{"", "Exercise", "Warm up sets", "Working sets"}, rowColumnHeader},
		{"tracking load header", []string{"", "Tracking Load (kg)"}, rowColumnHeader},
		{"exercise row", []string{"", "Bench Press", "1", "3", "8-12"}, rowExercise},
		{"noise row", []string{"Program Notes: read before starting"}, rowNoise},
		{"copyright row", []string{"Copyright 2024"}, rowNoise},
		{"empty row", []string{"", ""}, rowUnknown},
		{"stray value outside label columns", []string{"", "", "", "45"}, rowUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Grid{tt.row}
			got := classifyRow(g, 0, lay)
			if got.kind != tt.want {
				t.Errorf("classifyRow(%v) kind = %d, want %d", tt.row, got.kind, tt.want)
			}
		})
	}
}

func TestClassifyRowWeekHeaderNotOnDataRow(t *testing.T) {
	// "3x per week" style text must not open a week, and a cell mentioning
	// "week" next to a real exercise name is not a structural header either.
	lay := DefaultLayout()

	g := Grid{{"This program is run 3x per week"}}
	if got := classifyRow(g, 0, lay); got.kind == rowWeekHeader {
		t.Errorf("frequency note classified as week header")
	}

	g = Grid{{"Week 2", "Bench Press", "1", "3"}}
	if got := classifyRow(g, 0, lay); got.kind == rowWeekHeader {
		t.Errorf("label next to exercise data classified as week header")
	}
}

func TestClassifyRowReportsLabelColumn(t *testing.T) {
	lay := DefaultLayout()

	g := Grid{{"Upper 1", "Squat"}}
	info := classifyRow(g, 0, lay)
	if info.kind != rowWorkoutHeader {
		t.Fatalf("kind = %d, want rowWorkoutHeader", info.kind)
	}
	if info.labelCol != 0 {
		t.Errorf("labelCol = %d, want 0", info.labelCol)
	}
	if info.label != "Upper 1" {
		t.Errorf("label = %q, want %q", info.label, "Upper 1")
	}

	g = Grid{{"", "Upper 1"}}
	info = classifyRow(g, 0, lay)
	if info.kind != rowWorkoutHeader {
		t.Fatalf("kind = %d, want rowWorkoutHeader", info.kind)
	}
	if info.labelCol != 1 {
		t.Errorf("labelCol = %d, want 1", info.labelCol)
	}
}

func TestFirstInt(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"Block 2 - Strength", 2, true},
		{"Week 10", 10, true},
		{"Intro Week", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := firstInt(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("firstInt(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
