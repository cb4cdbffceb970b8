package refiner

import (
	"strconv"
	"strings"
)

// State is the top-level UI state.
type State int

const (
	StateIdle       State = iota // Waiting for input.
	StateSubmitting              // Request in flight; progress is shown.
	StateSuccess                 // Roadmap displayed.
	StateError                   // Error displayed.
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSuccess:
		return "success"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// View is an immutable snapshot of everything a presentation layer needs.
// Seq increases with every change so observers can drop stale snapshots.
type View struct {
	Seq         uint64
	State       State
	Description string
	Progress    *ProgressState // non-nil only while submitting
	Result      *Result        // non-nil only in StateSuccess
	HTML        string         // Result.Roadmap rendered to HTML
	Error       string
	Notice      string
}

// Busy reports whether the generate trigger should be disabled.
func (v View) Busy() bool { return v.State == StateSubmitting }

// CanDownload reports whether the download affordance is shown.
func (v View) CanDownload() bool { return v.Result != nil }

// Metadata returns the result metadata with defaults applied.
func (v View) Metadata() Metadata {
	if v.Result == nil || v.Result.Metadata == nil {
		return Metadata{ProcessingType: DefaultProcessingType}
	}
	md := *v.Result.Metadata
	if md.ProcessingType == "" {
		md.ProcessingType = DefaultProcessingType
	}
	return md
}

// MetadataDisplay holds metadata formatted for display.
type MetadataDisplay struct {
	ProcessingType string
	TotalTokens    string
	ProcessingTime string
}

// Display formats m for presentation: tokens with thousands separators and
// the processing time in seconds with an "s" suffix.
func (m Metadata) Display() MetadataDisplay {
	ptype := m.ProcessingType
	if ptype == "" {
		ptype = DefaultProcessingType
	}
	return MetadataDisplay{
		ProcessingType: ptype,
		TotalTokens:    groupThousands(m.TotalTokens),
		ProcessingTime: strconv.FormatFloat(m.ProcessingTime, 'f', -1, 64) + "s",
	}
}

func groupThousands(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
