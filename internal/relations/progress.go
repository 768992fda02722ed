package relations

import (
	"math"
	"strings"

	"github.com/Art-of-Technology/collab/internal/models"
)

// Progress summarizes how many child issues are finished
type Progress struct {
	Completed  int `json:"completed"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// IsCompletedStatus reports whether a status string counts as finished.
// Matching is case-insensitive and ignores surrounding whitespace.
func IsCompletedStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "done", "completed":
		return true
	}
	return false
}

// CalculateSubIssueProgress reduces child statuses into a progress summary.
// An empty list yields the zero Progress.
func CalculateSubIssueProgress(children []models.RelationItem) Progress {
	if len(children) == 0 {
		return Progress{}
	}

	completed := 0
	for _, c := range children {
		if IsCompletedStatus(c.Status) {
			completed++
		}
	}

	total := len(children)
	return Progress{
		Completed:  completed,
		Total:      total,
		Percentage: int(math.Round(float64(completed) / float64(total) * 100)),
	}
}
