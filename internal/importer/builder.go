package importer

import (
	"fmt"
	"strings"

	"dmarchuk/liftbook/internal/domain"
)

// Builder turns a decoded workbook into a ParsedProgram in one forward scan.
// Malformed or unrecognized rows never fail the scan; they are recorded in
// the result's Skipped list and dropped. The import favors producing a usable
// program over rejecting the whole file.
type Builder struct {
	layout Layout
}

// NewBuilder creates a Builder with the default sheet layout.
func NewBuilder() *Builder {
	return &Builder{layout: DefaultLayout()}
}

// NewBuilderWithLayout creates a Builder for a non-default sheet layout.
func NewBuilderWithLayout(layout Layout) *Builder {
	return &Builder{layout: layout}
}

// parseState holds the open cursors while scanning. It is threaded through
// the row loop explicitly; a block header resets the week and workout, a week
// header resets the workout.
type parseState struct {
	block   *ParsedBlock
	week    *ParsedWeek
	workout *ParsedWorkout
}

// Build scans the workbook's grid and assembles the parsed tree. name is the
// program display name (typically the uploaded file name); when empty the
// sheet name is used.
func (b *Builder) Build(wb *Workbook, name string) *ParsedProgram {
	if name == "" {
		name = wb.SheetName
	}
	prog := &ParsedProgram{
		Name:            name,
		WeeklyFrequency: wb.WeeklyFrequency(),
		Source:          wb.SheetName,
	}

	var st parseState
	for row := range wb.Grid {
		info := classifyRow(wb.Grid, row, b.layout)
		switch info.kind {
		case rowNoise, rowColumnHeader, rowRestDay, rowWeekMarker:
			// Intentional skips, no state change.

		case rowBlockHeader:
			num, ok := firstInt(info.label)
			if !ok {
				num = len(prog.Blocks) + 1
			}
			st.block = &ParsedBlock{Number: num, Name: info.label}
			prog.Blocks = append(prog.Blocks, st.block)
			st.week = nil
			st.workout = nil

		case rowWeekHeader:
			b.ensureBlock(prog, &st)
			num, ok := firstInt(info.label)
			if !ok {
				num = len(st.block.Weeks) + 1
			}
			weekType := b.inferWeekType(wb.Grid, row, info.label)
			st.week = &ParsedWeek{
				Number: num,
				Name:   weekName(info.label, weekType),
				Type:   weekType,
			}
			st.block.Weeks = append(st.block.Weeks, st.week)
			st.workout = nil

		case rowWorkoutHeader:
			b.ensureWeek(prog, &st)
			st.workout = &ParsedWorkout{
				Name:      info.label,
				DayNumber: len(st.week.Workouts) + 1,
			}
			st.week.Workouts = append(st.week.Workouts, st.workout)
			// Some variants put the first exercise on the header row itself.
			if info.labelCol != b.layout.ExerciseCol {
				if name := wb.Grid.Cell(row, b.layout.ExerciseCol); name != "" && !isColumnHeaderCell(strings.ToLower(name)) {
					st.workout.Exercises = append(st.workout.Exercises, b.parseExercise(wb.Grid, row, name))
				}
			}

		case rowExercise:
			if st.workout == nil {
				prog.Skipped = append(prog.Skipped, SkippedRow{
					Row:    row + 1,
					Reason: fmt.Sprintf("exercise %q outside any workout", info.label),
				})
				continue
			}
			st.workout.Exercises = append(st.workout.Exercises, b.parseExercise(wb.Grid, row, info.label))

		default:
			if rowHasContent(wb.Grid, row) {
				prog.Skipped = append(prog.Skipped, SkippedRow{Row: row + 1, Reason: "unrecognized row"})
			}
		}
	}
	return prog
}

// ensureBlock opens a default Block 1 when a week or workout arrives before
// any block header.
func (b *Builder) ensureBlock(prog *ParsedProgram, st *parseState) {
	if st.block != nil {
		return
	}
	st.block = &ParsedBlock{Number: 1, Name: "Block 1"}
	prog.Blocks = append(prog.Blocks, st.block)
}

// ensureWeek opens a default Week 1 (and Block 1 if needed) when a workout
// header arrives before any week header.
func (b *Builder) ensureWeek(prog *ParsedProgram, st *parseState) {
	b.ensureBlock(prog, st)
	if st.week != nil {
		return
	}
	st.week = &ParsedWeek{Number: 1, Name: "Week 1", Type: domain.WeekTypeNormal}
	st.block.Weeks = append(st.block.Weeks, st.week)
}

// inferWeekType reads the week's classification from its own header label or
// from a bare label row immediately above it (e.g. "Intro Week" followed by
// "Week 1").
func (b *Builder) inferWeekType(g Grid, row int, label string) domain.WeekType {
	texts := []string{strings.ToLower(label)}
	for _, c := range b.layout.LabelColumns {
		if t := g.Cell(row-1, c); t != "" {
			texts = append(texts, strings.ToLower(t))
		}
	}
	for _, t := range texts {
		if strings.Contains(t, "intro") {
			return domain.WeekTypeIntro
		}
		if strings.Contains(t, "deload") {
			return domain.WeekTypeDeload
		}
	}
	return domain.WeekTypeNormal
}

// weekName decorates the label with the inferred type when the label itself
// does not mention it.
func weekName(label string, weekType domain.WeekType) string {
	lower := strings.ToLower(label)
	switch weekType {
	case domain.WeekTypeIntro:
		if !strings.Contains(lower, "intro") {
			return label + " (Intro)"
		}
	case domain.WeekTypeDeload:
		if !strings.Contains(lower, "deload") {
			return label + " (Deload)"
		}
	}
	return label
}

// parseExercise builds one prescription from a data row using the layout's
// column assignments. Every field extractor is total, so this never fails.
func (b *Builder) parseExercise(g Grid, row int, name string) *ParsedExercise {
	lay := b.layout
	min, max := parseRepRange(g.Cell(row, lay.RepRangeCol))
	return &ParsedExercise{
		Name:        name,
		WarmupSets:  parseWarmupSets(g.Cell(row, lay.WarmupCol)),
		WorkingSets: parseWorkingSets(g.Cell(row, lay.WorkingSetsCol)),
		RepRangeMin: min,
		RepRangeMax: max,
		RIR:         parseRIR(g.Cell(row, lay.RIRCols[0]), g.Cell(row, lay.RIRCols[1])),
		RestSeconds: parseRestSeconds(g.Cell(row, lay.RestCol)),
		Notes:       g.Cell(row, lay.NotesCol),
		Substitutions: parseSubstitutions(
			g.Cell(row, lay.SubstitutionCols[0]),
			g.Cell(row, lay.SubstitutionCols[1]),
		),
		MuscleGroup: CategoryFor(name),
	}
}

func rowHasContent(g Grid, row int) bool {
	if row < 0 || row >= len(g) {
		return false
	}
	for _, c := range g[row] {
		if strings.TrimSpace(c) != "" {
			return true
		}
	}
	return false
}
