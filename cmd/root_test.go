package cmd

import (
	"testing"
)

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()

	for _, path := range [][]string{
		{"issue", "show"},
		{"issue", "relations"},
		{"issue", "link"},
		{"issue", "unlink"},
		{"issue", "search"},
		{"view", "list"},
		{"view", "show"},
		{"view", "save"},
		{"board"},
		{"serve"},
		{"seed"},
	} {
		cmd, _, err := root.Find(path)
		if err != nil {
			t.Errorf("Find(%v) failed: %v", path, err)
			continue
		}
		if cmd.Name() != path[len(path)-1] {
			t.Errorf("Find(%v) = %q", path, cmd.Name())
		}
	}

	if root.PersistentFlags().Lookup("workspace") == nil {
		t.Error("Expected persistent --workspace flag")
	}
}
