package gallery

import "testing"

var (
	accessLiterals = []string{"937", "weyland", "perfection"}
	accessOrdered  = []string{"nine", "three", "seven"}
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "WEYLAND", "weyland"},
		{"commas stripped", "nine, three, seven", "ninethreeseven"},
		{"hyphens stripped", "nine-three-seven", "ninethreeseven"},
		{"periods stripped", "9.3.7.", "937"},
		{"mixed separators", "Special Order 9-3, 7.", "specialorder937"},
		{"empty", "", ""},
		{"only separators", " ,-. \t", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatcher_Literals(t *testing.T) {
	t.Parallel()

	m := NewMatcher()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"exact digits", "937", true},
		{"digits with spaces", "9 3 7", true},
		{"digits with commas", "9, 3, 7", true},
		{"digits with hyphens", "9-3-7", true},
		{"digits with periods", "9.3.7", true},
		{"embedded in sentence", "the code is Special Order 937, I believe", true},
		{"weyland literal", "Weyland sent me", true},
		{"perfection literal", "a perfect organism. Perfection.", true},
		{"unrelated phrase", "open the pod bay doors", false},
		{"partial digits", "93", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.Matches(tt.in, accessLiterals, accessOrdered); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatcher_OrderedTokens(t *testing.T) {
	t.Parallel()

	m := NewMatcher()

	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"spoken digits in order", "nine three seven", true},
		{"spoken digits with commas", "nine, three, seven", true},
		{"spoken digits in sentence", "I think it was nine, then three, then seven", true},
		{"wrong order", "three nine seven", false},
		{"reversed", "seven three nine", false},
		{"missing token", "nine seven", false},
		{"tokens only once checked by first occurrence", "seven nine three seven", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := m.Matches(tt.in, accessLiterals, accessOrdered); got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMatcher_NoRules(t *testing.T) {
	t.Parallel()

	m := NewMatcher()
	if m.Matches("anything at all", nil, nil) {
		t.Error("expected no match when no literals or tokens are configured")
	}
}

func TestMatcher_PhoneticFallback(t *testing.T) {
	t.Parallel()

	exact := NewMatcher()
	fuzzy := NewMatcher(WithPhoneticFallback(0))

	// "ripely" is a plausible STT slip for "ripley".
	if exact.Matches("ripely", []string{"ripley"}, nil) {
		t.Fatal("exact matcher should not accept the misheard form")
	}
	if !fuzzy.Matches("ripely", []string{"ripley"}, nil) {
		t.Error("phonetic matcher should accept the misheard form")
	}
	if !fuzzy.Matches("Ripley", []string{"ripley"}, nil) {
		t.Error("phonetic matcher must still accept the exact form")
	}
	if fuzzy.Matches("rutherford", []string{"ripley"}, nil) {
		t.Error("phonetic matcher must not accept an unrelated name")
	}

	// Numeric literals are exempt from the phonetic pass.
	if fuzzy.Matches("nine thirty seven", []string{"937"}, nil) {
		t.Error("phonetic fallback must not apply to numeric literals")
	}
}
