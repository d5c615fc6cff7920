package response

import (
	"strings"
	"testing"
)

func TestBuilderOutput(t *testing.T) {
	rb := New()
	rb.Header("Todos")
	rb.KeyValue("Count", 2)
	rb.Blank()
	rb.Item("[✓] %s", "done task")
	rb.Line("    ID: %s", "1")

	out := rb.Build()
	wantLines := []string{
		"═══ Todos ═══",
		"• Count: 2",
		"  → [✓] done task",
		"    ID: 1",
	}
	for _, want := range wantLines {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTextResult(t *testing.T) {
	rb := New()
	rb.Line("hello")

	result := rb.TextResult()
	if len(result.Content) != 1 {
		t.Fatalf("expected 1 content item, got %d", len(result.Content))
	}
}
