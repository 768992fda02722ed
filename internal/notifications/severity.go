package notifications

// Severity represents the severity level of a toast
type Severity int

const (
	Info Severity = iota
	Warning
	Error
)

// String returns the lower-case name of the severity
func (s Severity) String() string {
	switch s {
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

type style struct {
	icon             string
	title            string
	foreground       string
	background       string
	borderForeground string
}

func (s Severity) style() style {
	switch s {
	case Warning:
		return style{
			icon:             "⚠",
			title:            "Warning",
			foreground:       "#FFD700",
			background:       "#875F00",
			borderForeground: "#875F00",
		}
	case Error:
		return style{
			icon:             "✕",
			title:            "Error",
			foreground:       "#FF0000",
			background:       "#5F0000",
			borderForeground: "#5F0000",
		}
	default:
		return style{
			icon:             "🔔",
			title:            "Info",
			foreground:       "#00AFFF",
			background:       "#00005F",
			borderForeground: "#00005F",
		}
	}
}
