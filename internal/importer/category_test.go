package importer

import "testing"

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Barbell Bench Press", "Chest"},
		{"Incline DB Press", ""},
		{"Romanian Deadlift", "Hamstrings"},
		{"Conventional Deadlift", "Back"},
		{"Seated Leg Curl", "Hamstrings"},
		{"Hack Squat", "Quads"},
		{"Bulgarian Split Squat", "Quads"},
		{"Standing Calf Raise", "Calves"},
		{"Hip Thrust", "Glutes"},
		{"Lat Pulldown", "Back"},
		{"Chest Supported Row", "Back"},
		{"Barbell Shrug", "Back"},
		{"Seated DB Shoulder Press", "Shoulders"},
		{"Cable Lateral Raise", "Shoulders"},
		{"Hammer Curl", "Biceps"},
		{"Tricep Pushdown", "Triceps"},
		{"Skull Crusher", "Triceps"},
		{"Cable Crunch", "Core"},
		{"Hanging Leg Raise", "Core"},
		{"Mystery Machine", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryFor(tt.name); got != tt.want {
				t.Errorf("CategoryFor(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

// Some names contain keywords from more than one group; the table order has
// to send them to the right one.
func TestCategoryForPriority(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Upright Row", "Shoulders"},          // not Back despite "row"
		{"Rear Delt Row", "Shoulders"},        // not Back
		{"Face Pull", "Shoulders"},            // not Back
		{"Close Grip Bench Press", "Triceps"}, // not Chest despite "bench"
		{"Stiff Leg Deadlift", "Hamstrings"},  // not Back
		{"Glute Ham Raise", "Glutes"},
		{"Leg Curl", "Hamstrings"}, // not Biceps despite "curl"
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryFor(tt.name); got != tt.want {
				t.Errorf("CategoryFor(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
