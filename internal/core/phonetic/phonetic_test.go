package phonetic

import (
	"reflect"
	"testing"
)

func TestNormalizePhonetic(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"aloo", "alu"},
		{"aalu", "alu"},
		{"  ALOO ", "alu"},
		{"alu", "alu"},
		{"piyaj", "peyaj"},
		{"Jeera", "jira"},
		{"fulkopi", "phulkopi"},
		{"panch foron", "panch phoron"},
		{"saffron", "saffron"},
		{"  Mixed Case  ", "mixed case"},
		{"", ""},
	}
	for _, tt := range tests {
		got := NormalizePhonetic(tt.input)
		if got != tt.want {
			t.Errorf("NormalizePhonetic(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePhoneticRoundTrip(t *testing.T) {
	a := NormalizePhonetic("aloo")
	b := NormalizePhonetic("aalu")
	if a != b || a != "alu" {
		t.Errorf("aloo -> %q, aalu -> %q, want both %q", a, b, "alu")
	}
}

func TestRootsIsACopy(t *testing.T) {
	roots := Roots()
	roots["alu"][0] = "changed"
	if NormalizePhonetic("alu") != "alu" {
		t.Error("mutating Roots() result must not affect normalization")
	}
	if Roots()["alu"][0] != "alu" {
		t.Error("Roots() should return a fresh copy")
	}
}

func TestRomanizeBangla(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"আলু", "alu"},
		{"ডিম", "dim"},
		{"ডাল", "dal"},
		{"মাছ", "machh"},
		{"লঙ্কা", "lngka"},
		{"\u09AA\u09C7\u0981\u09AF\u09BC\u09BE\u099C", "penyaj"},
		{"\u09AA\u09C7\u0981\u09DF\u09BE\u099C", "penyaj"},
		{"ডিম 2x!", "dim 2x!"},
		{"egg", "egg"},
		{"", ""},
	}
	for _, tt := range tests {
		got := RomanizeBangla(tt.input)
		if got != tt.want {
			t.Errorf("RomanizeBangla(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGeneratePhoneticVariations(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"Chili", []string{"chili", "chily", "chiilii", "khili"}},
		{"coffee", []string{"coffee", "coffi", "coffeeee", "cooffee", "koffee", "cophphee"}},
		{"  ", nil},
	}
	for _, tt := range tests {
		got := GeneratePhoneticVariations(tt.input)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("GeneratePhoneticVariations(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestGeneratePhoneticVariationsNoDuplicates(t *testing.T) {
	for _, word := range []string{"kiwi", "pepper", "cookie", "fish", "okra"} {
		seen := make(map[string]bool)
		got := GeneratePhoneticVariations(word)
		if len(got) == 0 || got[0] != word {
			t.Errorf("GeneratePhoneticVariations(%q) should start with the word itself, got %v", word, got)
		}
		for _, v := range got {
			if seen[v] {
				t.Errorf("GeneratePhoneticVariations(%q) returned duplicate %q", word, v)
			}
			seen[v] = true
		}
	}
}
