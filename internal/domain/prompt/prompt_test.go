package prompt

import (
	"strings"
	"testing"
)

func TestBuild_PreservesOrder(t *testing.T) {
	got := Build([]string{"first chunk", "second chunk", "third chunk"}, "what?")

	i1 := strings.Index(got, "first chunk")
	i2 := strings.Index(got, "second chunk")
	i3 := strings.Index(got, "third chunk")
	if i1 < 0 || i2 < 0 || i3 < 0 {
		t.Fatalf("missing chunk text in prompt:\n%s", got)
	}
	if !(i1 < i2 && i2 < i3) {
		t.Errorf("chunks out of order: %d %d %d", i1, i2, i3)
	}
	if !strings.Contains(got, "first chunk\n\nsecond chunk") {
		t.Error("chunks must be separated by a blank line")
	}
	if !strings.Contains(got, "QUESTION: what?") {
		t.Error("question missing")
	}
}

func TestBuild_EmptyContextKeepsInstructions(t *testing.T) {
	got := Build(nil, "anything?")

	for _, want := range []string{
		"only from the information in the context",
		"concise",
		"does not contain the information",
		"START CONTEXT\n\nEND CONTEXT",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestRole_IsValid(t *testing.T) {
	for _, r := range []Role{RoleSystem, RoleUser, RoleAssistant} {
		if !r.IsValid() {
			t.Errorf("%q should be valid", r)
		}
	}
	if Role("tool").IsValid() {
		t.Error("tool role should be rejected")
	}
}
