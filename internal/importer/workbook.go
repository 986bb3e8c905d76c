package importer

import (
	"errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DefaultWeeklyFrequency is used when the sheet name carries no "<digit>x" token.
const DefaultWeeklyFrequency = 4

var ErrNoSheets = errors.New("workbook contains no sheets")

// Grid is the rectangular cell view of one sheet. Rows are sparse: excelize
// trims trailing empty cells, so Cell() treats out-of-range as empty string.
type Grid [][]string

// Cell returns the trimmed cell text at (row, col), 0-based. Missing cells
// read as "".
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) {
		return ""
	}
	r := g[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Workbook is the decoded first sheet of an uploaded file.
type Workbook struct {
	SheetName string
	Grid      Grid
}

// ReadWorkbook decodes an xlsx stream and extracts the first sheet as a Grid.
// Only the first sheet is processed; additional sheets are ignored.
func ReadWorkbook(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	return &Workbook{SheetName: sheetName, Grid: Grid(rows)}, nil
}

var weeklyFreqPattern = regexp.MustCompile(`(\d)\s*[xх]`)

// WeeklyFrequency derives the intended sessions-per-week from the sheet name,
// e.g. "Hypertrophy 4x" -> 4. Defaults to DefaultWeeklyFrequency.
func (w *Workbook) WeeklyFrequency() int {
	m := weeklyFreqPattern.FindStringSubmatch(strings.ToLower(w.SheetName))
	if m == nil {
		return DefaultWeeklyFrequency
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return DefaultWeeklyFrequency
	}
	return n
}
