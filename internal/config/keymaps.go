package config

// KeyMappings defines all configurable board key bindings
type KeyMappings struct {
	// Navigation
	PrevColumn string `yaml:"prev_column"`
	NextColumn string `yaml:"next_column"`
	PrevIssue  string `yaml:"prev_issue"`
	NextIssue  string `yaml:"next_issue"`

	// Dragging
	PickIssue  string `yaml:"pick_issue"`
	PickColumn string `yaml:"pick_column"`
	Drop       string `yaml:"drop"`
	Cancel     string `yaml:"cancel"`

	// Issues
	ViewIssue string `yaml:"view_issue"`

	// Other
	Refresh  string `yaml:"refresh"`
	ShowHelp string `yaml:"show_help"`
	Quit     string `yaml:"quit"`
}

// DefaultKeyMappings returns the default key mappings
func DefaultKeyMappings() KeyMappings {
	return KeyMappings{
		// Navigation
		PrevColumn: "h",
		NextColumn: "l",
		PrevIssue:  "k",
		NextIssue:  "j",

		// Dragging
		PickIssue:  "space",
		PickColumn: "m",
		Drop:       "enter",
		Cancel:     "esc",

		// Issues
		ViewIssue: "v",

		// Other
		Refresh:  "r",
		ShowHelp: "?",
		Quit:     "q",
	}
}

// applyDefaults fills in missing key mappings with defaults
func (k *KeyMappings) applyDefaults() {
	defaults := DefaultKeyMappings()

	if k.PrevColumn == "" {
		k.PrevColumn = defaults.PrevColumn
	}
	if k.NextColumn == "" {
		k.NextColumn = defaults.NextColumn
	}
	if k.PrevIssue == "" {
		k.PrevIssue = defaults.PrevIssue
	}
	if k.NextIssue == "" {
		k.NextIssue = defaults.NextIssue
	}
	if k.PickIssue == "" {
		k.PickIssue = defaults.PickIssue
	}
	if k.PickColumn == "" {
		k.PickColumn = defaults.PickColumn
	}
	if k.Drop == "" {
		k.Drop = defaults.Drop
	}
	if k.Cancel == "" {
		k.Cancel = defaults.Cancel
	}
	if k.ViewIssue == "" {
		k.ViewIssue = defaults.ViewIssue
	}
	if k.Refresh == "" {
		k.Refresh = defaults.Refresh
	}
	if k.ShowHelp == "" {
		k.ShowHelp = defaults.ShowHelp
	}
	if k.Quit == "" {
		k.Quit = defaults.Quit
	}
}
