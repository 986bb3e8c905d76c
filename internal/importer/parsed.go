package importer

import "dmarchuk/liftbook/internal/domain"

// ParsedProgram is the transient in-memory tree produced by one import pass.
// It lives only for the duration of the import call; persistence turns it
// into Program/ProgramBlock/BlockWeek/WorkoutTemplate/TemplateExercise rows.
type ParsedProgram struct {
	Name            string
	WeeklyFrequency int
	Source          string // e.g. uploaded file name or sheet name
	Blocks          []*ParsedBlock
	Skipped         []SkippedRow // Diagnostics for rows the scan could not place
}

// ParsedBlock is a multi-week phase parsed from a block header row.
type ParsedBlock struct {
	Number int // 1-based, from the header text or sequential fallback
	Name   string
	Weeks  []*ParsedWeek
}

// ParsedWeek is one training week parsed from a week header row.
type ParsedWeek struct {
	Number   int
	Name     string
	Type     domain.WeekType
	Workouts []*ParsedWorkout
}

// ParsedWorkout is one workout session header plus its exercise rows.
type ParsedWorkout struct {
	Name      string
	DayNumber int // 1-based arrival order within the week
	Exercises []*ParsedExercise
}

// ParsedExercise is a single prescription row. The exercise name is free
// text at this stage; identity resolution against the library happens later.
type ParsedExercise struct {
	Name          string
	WarmupSets    int
	WorkingSets   int
	RepRangeMin   int
	RepRangeMax   int
	RIR           *int // nil when not prescribed
	RestSeconds   int
	Notes         string
	Substitutions []string // 0-2 substitute exercise names
	MuscleGroup   string   // Inferred category, "" when no keyword matched
}

// SkippedRow records a row the builder dropped, for diagnostics.
// Skipping is never fatal; the import proceeds with whatever it can place.
type SkippedRow struct {
	Row    int // 1-based spreadsheet row index
	Reason string
}
