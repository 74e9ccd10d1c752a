package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ferrite/internal/diag"
	"ferrite/internal/source"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("fn main() {\n\tlet x = flag + 1;\n}\n")
	fileID := fs.Add("/tmp/proj/main.yaml", content, 0)

	bag := diag.NewBag(10)
	d := diag.NewError(diag.SemaInvalidOperand, source.Span{File: fileID, Start: 21, End: 29}, "bad operand").
		WithNote(source.Span{File: fileID, Start: 0, End: 2}, "in this function")
	bag.Add(d)

	var buf bytes.Buffer
	opts := JSONOpts{IncludePositions: true, PathMode: PathModeBasename, IncludeNotes: true}
	if err := JSON(&buf, bag, fs, opts); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var output DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &output); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}

	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "SEM3008",
			Title:    diag.SemaInvalidOperand.Title(),
			Message:  "bad operand",
			Location: LocationJSON{File: "main.yaml", StartByte: 21, EndByte: 29, StartLine: 2, StartCol: 10, EndLine: 2, EndCol: 18},
			Notes: []NoteJSON{{
				Message:  "in this function",
				Location: LocationJSON{File: "main.yaml", StartByte: 0, EndByte: 2, StartLine: 1, StartCol: 1, EndLine: 1, EndCol: 3},
			}},
		}},
	}
	if diff := cmp.Diff(want, output); diff != "" {
		t.Fatalf("output (-want +got):\n%s", diff)
	}
}

func TestJSONMaxAndNotes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.Add("a.yaml", nil, 0)
	bag := diag.NewBag(10)
	for range 3 {
		bag.Add(diag.NewError(diag.SemaTypeMismatch, source.Span{File: id}, "m").
			WithNote(source.Span{File: id}, "n"))
	}
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, "timings").
		WithNote(source.Span{}, `{"kind":"pipeline"}`))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 2})
	if out.Count != 2 || out.Dropped != 2 {
		t.Fatalf("count=%d dropped=%d", out.Count, out.Dropped)
	}
	if out.Diagnostics[0].Notes != nil {
		t.Fatal("notes included without IncludeNotes")
	}

	all := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	timing := all.Diagnostics[3]
	if timing.Code != "OBS8001" || len(timing.Notes) != 1 {
		t.Fatalf("timing diagnostic %+v", timing)
	}
}
