package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestReadWorkbook(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", "Strength 3x"); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	cells := map[string]string{
		"A1": "Block 1",
		"A2": "Week 1",
		"A3": "Upper",
		"B4": "Bench Press",
		"C4": "2",
		"D4": "3",
		"E4": "8-12",
	}
	for ref, val := range cells {
		if err := f.SetCellValue("Strength 3x", ref, val); err != nil {
			t.Fatalf("SetCellValue(%s): %v", ref, err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	wb, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if wb.SheetName != "Strength 3x" {
		t.Errorf("SheetName = %q, want %q", wb.SheetName, "Strength 3x")
	}
	if wb.WeeklyFrequency() != 3 {
		t.Errorf("WeeklyFrequency = %d, want 3", wb.WeeklyFrequency())
	}
	if got := wb.Grid.Cell(0, 0); got != "Block 1" {
		t.Errorf("Cell(0,0) = %q, want %q", got, "Block 1")
	}
	if got := wb.Grid.Cell(3, 1); got != "Bench Press" {
		t.Errorf("Cell(3,1) = %q, want %q", got, "Bench Press")
	}
}

func TestReadWorkbookUsesFirstSheetOnly(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetCellValue("Sheet1", "A1", "Block 1"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	if _, err := f.NewSheet("Notes"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	if err := f.SetCellValue("Notes", "A1", "ignore me"); err != nil {
		t.Fatalf("SetCellValue: %v", err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer: %v", err)
	}

	wb, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ReadWorkbook: %v", err)
	}
	if wb.SheetName != "Sheet1" {
		t.Errorf("SheetName = %q, want Sheet1", wb.SheetName)
	}
	if got := wb.Grid.Cell(0, 0); got != "Block 1" {
		t.Errorf("Cell(0,0) = %q, want %q", got, "Block 1")
	}
}

func TestReadWorkbookRejectsGarbage(t *testing.T) {
	if _, err := ReadWorkbook(strings.NewReader("this is not a zip archive")); err == nil {
		t.Fatal("ReadWorkbook accepted garbage input")
	}
}

func TestGridCellOutOfRange(t *testing.T) {
	g := Grid{{"a", " b "}}
	if got := g.Cell(0, 1); got != "b" {
		t.Errorf("Cell(0,1) = %q, want trimmed %q", got, "b")
	}
	for _, c := range [][2]int{{0, 2}, {1, 0}, {-1, 0}, {0, -1}} {
		if got := g.Cell(c[0], c[1]); got != "" {
			t.Errorf("Cell(%d,%d) = %q, want empty", c[0], c[1], got)
		}
	}
}

func TestWeeklyFrequency(t *testing.T) {
	tests := []struct {
		sheet string
		want  int
	}{
		{"Hypertrophy 4x", 4},
		{"PPL 6x", 6},
		{"Program 3 x", 3},
		{"Strength", DefaultWeeklyFrequency},
		{"", DefaultWeeklyFrequency},
	}
	for _, tt := range tests {
		t.Run(tt.sheet, func(t *testing.T) {
			wb := &Workbook{SheetName: tt.sheet}
			if got := wb.WeeklyFrequency(); got != tt.want {
				t.Errorf("WeeklyFrequency(%q) = %d, want %d", tt.sheet, got, tt.want)
			}
		})
	}
}
