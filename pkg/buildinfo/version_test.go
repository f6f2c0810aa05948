package buildinfo

import (
	"runtime"
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	old := Version
	Version = "v1.2.3"
	t.Cleanup(func() { Version = old })

	s := String()
	for _, want := range []string{"version: v1.2.3", "commit: " + Commit, "go: " + runtime.Version()} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	if !strings.HasPrefix(Template(), "{{.Name}} version: v1.2.3") {
		t.Errorf("Template() = %q", Template())
	}
}
