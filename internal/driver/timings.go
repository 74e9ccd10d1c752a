package driver

import (
	"encoding/json"
	"fmt"

	"ferrite/internal/diag"
	"ferrite/internal/observ"
	"ferrite/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic stores the report as an info diagnostic whose note
// carries the JSON payload. It bypasses the bag limit.
func appendTimingDiagnostic(bag *diag.Bag, path string, report observ.Report) {
	if bag == nil {
		return
	}
	payload := timingPayload{Kind: "pipeline", Path: path, TotalMS: report.TotalMS, Phases: report.Phases}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.Diagnostic{
		Severity: diag.SevInfo,
		Code:     diag.ObsTimings,
		Message:  msg,
		Primary:  source.Span{},
		Notes: []diag.Note{
			{Span: source.Span{}, Msg: string(data)},
		},
	}

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
