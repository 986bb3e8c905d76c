package importer

import (
	"regexp"
	"strconv"
	"strings"
)

// Field extractor defaults. Every extractor is total: unparsable input falls
// through to these values rather than failing the import.
const (
	defaultRepRangeMin = 8
	defaultRepRangeMax = 12
	defaultWorkingSets = 2
	defaultRestSeconds = 120

	maxWarmupSets = 5
	maxRIR        = 4
)

var (
	rangePattern = regexp.MustCompile(`^\s*(\d+)\s*[-–]\s*(\d+)\s*$`)
	restPattern  = regexp.MustCompile(`(\d+)\s*[-–]?\s*\d*\s*min`)
)

// repRangeSerialPatches maps spreadsheet date serials back to the rep ranges
// they were typed as. Some source workbooks stored "8-12" style cells with a
// date format, so the engine hands us the serial number instead of the text.
var repRangeSerialPatches = map[string][2]int{
	"45453": {6, 10},  // "6-10"
	"45516": {8, 12},  // "8-12"
	"45580": {10, 15}, // "10-15"
}

// parseRepRange extracts (min, max) from a rep-range cell. Accepts "N-M",
// a bare integer N (treated as N-N), or a known misparsed date serial.
// Anything else yields the 8-12 default.
func parseRepRange(cell string) (int, int) {
	cell = strings.TrimSpace(cell)
	if m := rangePattern.FindStringSubmatch(cell); m != nil {
		lo, _ := strconv.Atoi(m[1])
		hi, _ := strconv.Atoi(m[2])
		if lo > 0 && hi >= lo {
			return lo, hi
		}
	}
	if n, err := strconv.Atoi(cell); err == nil && n > 0 {
		if r, ok := repRangeSerialPatches[cell]; ok {
			return r[0], r[1]
		}
		if n < 100 {
			return n, n
		}
	}
	return defaultRepRangeMin, defaultRepRangeMax
}

// parseWarmupSets extracts a warm-up set count. "N-M" takes the lower bound;
// bare integers 0-5 pass through. Larger values are misparses (date serials
// again) and coerce to 0.
func parseWarmupSets(cell string) int {
	cell = strings.TrimSpace(cell)
	if m := rangePattern.FindStringSubmatch(cell); m != nil {
		n, _ := strconv.Atoi(m[1])
		if n >= 0 && n <= maxWarmupSets {
			return n
		}
		return 0
	}
	if n, err := strconv.Atoi(cell); err == nil {
		if n >= 0 && n <= maxWarmupSets {
			return n
		}
	}
	return 0
}

// parseWorkingSets extracts a working set count in (0, 10); default 2.
func parseWorkingSets(cell string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil && n > 0 && n < 10 {
		return n
	}
	return defaultWorkingSets
}

// parseRIR extracts reps-in-reserve from the first cell holding an integer
// in [0, 4]. Returns nil when neither candidate qualifies.
func parseRIR(cells ...string) *int {
	for _, cell := range cells {
		if n, err := strconv.Atoi(strings.TrimSpace(cell)); err == nil && n >= 0 && n <= maxRIR {
			v := n
			return &v
		}
	}
	return nil
}

// parseRestSeconds extracts a rest duration from cells like "2 min" or
// "2-3 min", taking the first integer as minutes. Default 120 seconds.
func parseRestSeconds(cell string) int {
	if m := restPattern.FindStringSubmatch(strings.ToLower(cell)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			return n * 60
		}
	}
	return defaultRestSeconds
}

// parseSubstitutions collects substitute names from the designated cells.
// "See notes" style cells point at the free-text column and carry no
// structured substitute.
func parseSubstitutions(cells ...string) []string {
	var subs []string
	for _, cell := range cells {
		t := strings.TrimSpace(cell)
		if t == "" || strings.Contains(strings.ToLower(t), "see notes") {
			continue
		}
		subs = append(subs, t)
	}
	return subs
}
