package refusal

// Detail carries the optional, code-specific extra context a refusal may
// attach, per spec.md §3/§4.8.
type Detail struct {
	Path        string   `json:"path,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	NextCommand string   `json:"next_command,omitempty"`
}

// Refusal is the body of a REFUSAL envelope: an operation that declined to
// proceed before attempting any bytes-changing work (spec.md §4.8, §7).
type Refusal struct {
	Code    Code    `json:"code"`
	Message string  `json:"message"`
	Detail  *Detail `json:"detail,omitempty"`
}

// Envelope is the top-level shape every refusal is wrapped in before being
// printed or returned from the CLI layer.
type Envelope struct {
	Version string  `json:"version"`
	Outcome string  `json:"outcome"` // always "REFUSAL"
	Refusal Refusal `json:"refusal"`
}

// New builds a refusal Envelope with the given schema version tag (e.g.
// "pack.seal.v0", "pack.verify.v0", "pack.diff.v0").
func New(schemaVersion string, code Code, message string, detail *Detail) Envelope {
	return Envelope{
		Version: schemaVersion,
		Outcome: "REFUSAL",
		Refusal: Refusal{
			Code:    code,
			Message: message,
			Detail:  detail,
		},
	}
}

// Finding is a single structured description of an invariant violation
// discovered during verify, per spec.md §4.6.
type Finding struct {
	Code     FindingCode `json:"code"`
	Path     string      `json:"path,omitempty"`
	Expected string      `json:"expected,omitempty"`
	Actual   string      `json:"actual,omitempty"`
}
