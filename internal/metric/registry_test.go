package metric

import (
	"testing"

	apperrors "github.com/elshize/eval-metrics/internal/pkg/errors"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		wantName   string
		wantFamily string
	}{
		{"P@10", "P@10", "P"},
		{"R@5", "R@5", "R"},
		{"AP", "AP", "AP"},
		{"RR", "RR", "RR"},
		{"DCG@20", "DCG@20", "DCG"},
		{"nDCG@20", "nDCG@20", "nDCG"},
		{"NDCG@20", "nDCG@20", "nDCG"},
		{"DCG", "DCG", "DCG"},
		{"RBP:95", "RBP:95", "RBP"},
		{"RBP:50", "RBP:50", "RBP"},
		{"RBP", "RBP:95", "RBP"},
		{"p@3", "P@3", "P"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.name)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.name, err)
			}
			if spec.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", spec.Name(), tt.wantName)
			}
			if spec.Family() != tt.wantFamily {
				t.Errorf("Family() = %q, want %q", spec.Family(), tt.wantFamily)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	names := []string{
		"",
		"XYZ",
		"P",        // precision without a cutoff
		"P@0",      // cutoff must be positive
		"P@-5",     //
		"P@ten",    // unparsable cutoff
		"RBP:101",  // persistence above 100%
		"RBP:-1",   //
		"RBP:high", // unparsable persistence
		"AP:95",    // only RBP takes a colon parameter
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want configuration error", name)
			}
			if !apperrors.IsConfiguration(err) {
				t.Errorf("Parse(%q) error = %v, want configuration error", name, err)
			}
		})
	}
}

func TestNew_ValidatesParams(t *testing.T) {
	tests := []struct {
		name   string
		family string
		params Params
		wantOK bool
	}{
		{"valid precision", "P", Params{K: 10}, true},
		{"negative cutoff", "AP", Params{K: -1}, false},
		{"missing required cutoff", "R", Params{}, false},
		{"log base 1", "nDCG", Params{K: 10, LogBase: 1}, false},
		{"log base below 1", "DCG", Params{K: 10, LogBase: 0.5}, false},
		{"valid log base", "DCG", Params{K: 10, LogBase: 10}, true},
		{"persistence above 1", "RBP", Params{Persistence: 1.5}, false},
		{"negative threshold", "P", Params{K: 5, Threshold: -1}, false},
		{"unknown gain", "nDCG", Params{K: 5, Gain: "sigmoid"}, false},
		{"exponential gain", "nDCG", Params{K: 5, Gain: GainExponential}, true},
		{"unknown family", "MAP", Params{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.family, tt.params)
			if tt.wantOK && err != nil {
				t.Errorf("New() error = %v, want nil", err)
			}
			if !tt.wantOK {
				if err == nil {
					t.Fatal("New() succeeded, want configuration error")
				}
				if !apperrors.IsConfiguration(err) {
					t.Errorf("New() error = %v, want configuration error", err)
				}
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	specs, err := ParseAll([]string{"P@10", "AP", "nDCG@20"})
	if err != nil {
		t.Fatalf("ParseAll() error = %v", err)
	}
	if len(specs) != 3 {
		t.Fatalf("ParseAll() returned %d specs, want 3", len(specs))
	}

	if _, err := ParseAll([]string{"P@10", "bogus"}); err == nil {
		t.Error("ParseAll() accepted an unknown metric")
	}
}

func TestFamilies(t *testing.T) {
	infos := Families()
	if len(infos) != len(families) {
		t.Fatalf("Families() returned %d entries, want %d", len(infos), len(families))
	}
	for i := 1; i < len(infos); i++ {
		if infos[i-1].Name >= infos[i].Name {
			t.Errorf("Families() not sorted: %q before %q", infos[i-1].Name, infos[i].Name)
		}
	}
}

func TestScore_String(t *testing.T) {
	if got := Value(0.5).String(); got != "0.5000" {
		t.Errorf("String() = %q, want 0.5000", got)
	}
	if got := Undefined().String(); got != "n/a" {
		t.Errorf("String() = %q, want n/a", got)
	}
}

func TestScore_MarshalJSON(t *testing.T) {
	b, err := Value(0.25).MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != "0.25" {
		t.Errorf("MarshalJSON() = %s, want 0.25", b)
	}

	b, err = Undefined().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}
	if string(b) != "null" {
		t.Errorf("MarshalJSON() = %s, want null", b)
	}
}
