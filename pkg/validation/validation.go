package validation

import (
	"fmt"
	"strings"
)

// Level indicates which generation stage produced the result.
type Level string

const (
	LevelSchema    Level = "schema"
	LevelConfig    Level = "config"
	LevelLayout    Level = "layout"
	LevelPlacement Level = "placement"
	LevelExport    Level = "export"
)

// Severity indicates how critical a validation result is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Result is a single validation finding.
type Result struct {
	Level       Level    `json:"level" yaml:"level"`
	Severity    Severity `json:"severity" yaml:"severity"`
	Message     string   `json:"message" yaml:"message"`
	ConfigPath  string   `json:"config_path,omitempty" yaml:"config_path,omitempty"`
	ActualValue any      `json:"actual_value,omitempty" yaml:"actual_value,omitempty"`
	Expected    string   `json:"expected,omitempty" yaml:"expected,omitempty"`
	Suggestions []string `json:"suggestions,omitempty" yaml:"suggestions,omitempty"`
}

// String renders the result on one line, e.g. "[config] rings.end_fraction: must be in (0,1)".
func (r Result) String() string {
	if r.ConfigPath == "" {
		return fmt.Sprintf("[%s] %s", r.Level, r.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", r.Level, r.ConfigPath, r.Message)
}

// Report is the complete validation output of one or more stages.
type Report struct {
	Valid    bool     `json:"valid" yaml:"valid"`
	Errors   []Result `json:"errors" yaml:"errors"`
	Warnings []Result `json:"warnings" yaml:"warnings"`
	Info     []Result `json:"info" yaml:"info"`
	Summary  string   `json:"summary" yaml:"summary"`
}

// NewReport creates an empty valid report.
func NewReport() *Report {
	r := &Report{
		Valid:    true,
		Errors:   []Result{},
		Warnings: []Result{},
		Info:     []Result{},
	}
	r.updateSummary()
	return r
}

// AddError adds an error result and marks the report invalid.
func (r *Report) AddError(result Result) {
	result.Severity = SeverityError
	r.Errors = append(r.Errors, result)
	r.Valid = false
	r.updateSummary()
}

// AddWarning adds a warning result.
func (r *Report) AddWarning(result Result) {
	result.Severity = SeverityWarning
	r.Warnings = append(r.Warnings, result)
	r.updateSummary()
}

// AddInfo adds an informational result.
func (r *Report) AddInfo(result Result) {
	result.Severity = SeverityInfo
	r.Info = append(r.Info, result)
	r.updateSummary()
}

// Merge combines another report into this one. A nil report is ignored.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Info = append(r.Info, other.Info...)
	if !other.Valid {
		r.Valid = false
	}
	r.updateSummary()
}

// Err converts an invalid report into an error wrapping kind, listing every
// error message. It returns nil for a valid report.
func (r *Report) Err(kind error) error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.String()
	}
	return fmt.Errorf("%w: %s", kind, strings.Join(msgs, "; "))
}

func (r *Report) updateSummary() {
	r.Summary = fmt.Sprintf("%d errors, %d warnings, %d info",
		len(r.Errors), len(r.Warnings), len(r.Info))
}
