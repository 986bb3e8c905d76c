package importer

import "strings"

// categoryRule pairs a name keyword with the muscle group it implies.
// Rules are evaluated in table order and the first match wins, so more
// specific keywords (e.g. "romanian deadlift") sit above the generic ones
// they would otherwise lose to.
type categoryRule struct {
	keyword string
	group   string
}

var categoryTable = []categoryRule{
	{"romanian deadlift", "Hamstrings"},
	{"rdl", "Hamstrings"},
	{"stiff leg", "Hamstrings"},
	{"leg curl", "Hamstrings"},
	{"hamstring", "Hamstrings"},
	{"good morning", "Hamstrings"},

	{"hip thrust", "Glutes"},
	{"glute", "Glutes"},
	{"hip abduction", "Glutes"},

	{"squat", "Quads"},
	{"leg press", "Quads"},
	{"leg extension", "Quads"},
	{"lunge", "Quads"},
	{"split squat", "Quads"},
	{"step up", "Quads"},

	{"calf", "Calves"},

	{"upright row", "Shoulders"},
	{"rear delt", "Shoulders"},
	{"face pull", "Shoulders"},

	{"close grip", "Triceps"},

	{"bench", "Chest"},
	{"chest press", "Chest"},
	{"chest fly", "Chest"},
	{"pec", "Chest"},
	{"push up", "Chest"},
	{"push-up", "Chest"},
	{"dip", "Chest"},

	{"deadlift", "Back"},
	{"row", "Back"},
	{"pulldown", "Back"},
	{"pull down", "Back"},
	{"pull up", "Back"},
	{"pull-up", "Back"},
	{"chin up", "Back"},
	{"chin-up", "Back"},
	{"pullover", "Back"},
	{"shrug", "Back"},

	{"overhead press", "Shoulders"},
	{"shoulder press", "Shoulders"},
	{"ohp", "Shoulders"},
	{"lateral raise", "Shoulders"},
	{"side raise", "Shoulders"},
	{"front raise", "Shoulders"},
	{"delt", "Shoulders"},

	{"curl", "Biceps"},

	{"tricep", "Triceps"},
	{"pushdown", "Triceps"},
	{"skull crusher", "Triceps"},
	{"overhead extension", "Triceps"},

	{"crunch", "Core"},
	{"plank", "Core"},
	{"ab ", "Core"},
	{"leg raise", "Core"},
	{"sit up", "Core"},
	{"rollout", "Core"},
}

// CategoryFor infers the muscle group for a free-text exercise name.
// Returns "" when no keyword matches.
func CategoryFor(name string) string {
	lower := strings.ToLower(name)
	for _, rule := range categoryTable {
		if strings.Contains(lower, rule.keyword) {
			return rule.group
		}
	}
	return ""
}
