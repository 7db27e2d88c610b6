package plan

const (
	ModeAuto   = "auto"
	ModeGuided = "guided"
)

// ValidMode reports whether mode is one of the supported generation modes.
func ValidMode(mode string) bool {
	return mode == ModeAuto || mode == ModeGuided
}

// GuidedInputs carries the caller's own campaign framing. The strings are
// used verbatim in prompts and in synthesized briefs.
type GuidedInputs struct {
	Objectives        string `json:"objectives"`
	SuccessDefinition string `json:"successDefinition"`
	Notes             string `json:"notes"`
}

// Request describes one brief generation. Built per call, discarded after.
type Request struct {
	Mode            string
	SubjectName     string
	SubjectCategory string
	SubjectContext  map[string]any
	Guided          *GuidedInputs
}
