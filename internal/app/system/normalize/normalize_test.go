package normalize

import (
	"reflect"
	"testing"
)

func TestEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"user@example.com", "user@example.com"},
		{"USER@EXAMPLE.COM", "user@example.com"},
		{"  Coach@Squad.Org  ", "coach@squad.org"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Email(tt.input); got != tt.want {
				t.Errorf("Email(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Morning Crew", "Morning Crew"},
		{"  Morning Crew  ", "Morning Crew"},
		{"UPPER", "UPPER"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Name(tt.input); got != tt.want {
				t.Errorf("Name(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"ab12cd", "AB12CD"},
		{" AB12CD ", "AB12CD"},
		{"aB12cD", "AB12CD"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Code(tt.input); got != tt.want {
				t.Errorf("Code(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTags(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"nil", nil, []string{}},
		{"lowercases and trims", []string{" Legs ", "AM"}, []string{"legs", "am"}},
		{"dedupes after normalizing", []string{"legs", "LEGS", " legs"}, []string{"legs"}},
		{"drops empties", []string{"", "  ", "core"}, []string{"core"}},
		{"keeps order", []string{"b", "a", "b"}, []string{"b", "a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tags(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tags(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLength_CountsRunes(t *testing.T) {
	if got := Length("🔥🔥"); got != 2 {
		t.Errorf("Length = %d, want 2", got)
	}
}
