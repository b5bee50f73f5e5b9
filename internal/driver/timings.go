package driver

import (
	"encoding/json"
	"fmt"

	"mesozoic/internal/diag"
	"mesozoic/internal/observ"
	"mesozoic/internal/source"
)

// TimingPayload is the JSON carried in the note of an ObsTimings diagnostic.
type TimingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingDiagnostic turns a timer report into an informational diagnostic.
func TimingDiagnostic(kind, path string, report observ.Report) diag.Diagnostic {
	payload := TimingPayload{Kind: kind, Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, payload.Path)
	}
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg)
	if data, err := json.Marshal(payload); err == nil {
		d = d.WithNote(source.Span{}, string(data))
	}
	return d
}

