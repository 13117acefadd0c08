package search

import (
	"reflect"
	"strings"
	"testing"
)

func TestSynthesizeShape(t *testing.T) {
	results := Synthesize("cats")
	if len(results) != ResultCount {
		t.Fatalf("expected %d results, got %d", ResultCount, len(results))
	}
	for i, res := range results {
		if res.Rank != i+1 {
			t.Fatalf("result %d: expected rank %d, got %d", i, i+1, res.Rank)
		}
		if !strings.Contains(res.Title, "cats") {
			t.Fatalf("result %d: title %q does not contain query text", i, res.Title)
		}
		if !strings.Contains(res.URL, "cats") {
			t.Fatalf("result %d: url %q does not contain query text", i, res.URL)
		}
		if !strings.Contains(res.Description, "cats") {
			t.Fatalf("result %d: description %q does not contain query text", i, res.Description)
		}
	}
}

func TestSynthesizeIsDeterministic(t *testing.T) {
	first := Synthesize("weather in oslo")
	second := Synthesize("weather in oslo")
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output for identical input:\n%v\n%v", first, second)
	}
}
