package resolver

import (
	"reflect"
	"testing"
)

func TestGenerateSymbolsSingleWord(t *testing.T) {
	got := GenerateSymbols("Apple Inc.")
	want := []string{"AP", "APP", "APPL", "APPLE"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateSymbols(Apple Inc.) = %v, want %v", got, want)
	}
}

func TestGenerateSymbolsMultiWord(t *testing.T) {
	got := GenerateSymbols("Advanced Micro Devices")
	want := []string{"AMD", "ADV", "ADVA", "ADMI", "ADVM"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GenerateSymbols(Advanced Micro Devices) = %v, want %v", got, want)
	}
}

func TestGenerateSymbolsStripsSuffixes(t *testing.T) {
	a := GenerateSymbols("Tesla")
	b := GenerateSymbols("Tesla, Inc.")
	c := GenerateSymbols("Tesla Motors Inc")
	if !reflect.DeepEqual(a, b) {
		t.Errorf("suffix stripping: %v vs %v", a, b)
	}
	if reflect.DeepEqual(a, c) {
		t.Errorf("non-suffix word should change guesses: %v", c)
	}
}

func TestGenerateSymbolsBounds(t *testing.T) {
	for _, name := range []string{"", "   ", "!!!"} {
		if got := GenerateSymbols(name); got != nil {
			t.Errorf("GenerateSymbols(%q) = %v, want nil", name, got)
		}
	}
	for _, g := range GenerateSymbols("International Business Machines Corporation") {
		if len(g) < 1 || len(g) > 5 {
			t.Errorf("guess %q out of length bounds", g)
		}
	}
	if got := GenerateSymbols("Alphabet"); len(got) > maxGenerated {
		t.Errorf("got %d guesses, cap is %d", len(got), maxGenerated)
	}
}

func TestGenerateSymbolsDeduplicates(t *testing.T) {
	got := GenerateSymbols("GE")
	seen := map[string]bool{}
	for _, g := range got {
		if seen[g] {
			t.Errorf("duplicate guess %q in %v", g, got)
		}
		seen[g] = true
	}
}
