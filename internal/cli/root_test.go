package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootHelpListsCommands(t *testing.T) {
	var stdout, stderr bytes.Buffer

	root := NewRootCmd(&stdout, &stderr)
	root.SetArgs([]string{"--help"})

	if err := root.Execute(); err != nil {
		t.Fatalf("help failed: %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"serve", "backup"} {
		if !strings.Contains(out, want) {
			t.Errorf("help output missing %q command", want)
		}
	}
}
