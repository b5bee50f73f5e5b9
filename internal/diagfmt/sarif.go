package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"mesozoic/internal/diag"
	"mesozoic/internal/source"
)

const (
	sarifVersion = "2.1.0"
	sarifSchema  = "https://json.schemastore.org/sarif-2.1.0.json"
)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool        sarifTool         `json:"tool"`
	Invocations []sarifInvocation `json:"invocations,omitempty"`
	Results     []sarifResult     `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules,omitempty"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
}

type sarifInvocation struct {
	Arguments           []string `json:"arguments,omitempty"`
	ExecutionSuccessful bool     `json:"executionSuccessful"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID           string          `json:"ruleId"`
	RuleIndex        int             `json:"ruleIndex"`
	Level            string          `json:"level"`
	Message          sarifMessage    `json:"message"`
	Locations        []sarifLocation `json:"locations,omitempty"`
	RelatedLocations []sarifLocation `json:"relatedLocations,omitempty"`
}

type sarifLocation struct {
	ID               int                    `json:"id,omitempty"`
	PhysicalLocation *sarifPhysicalLocation `json:"physicalLocation,omitempty"`
	Message          *sarifMessage          `json:"message,omitempty"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifact `json:"artifactLocation"`
	Region           sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn"`
	EndLine     uint32 `json:"endLine"`
	EndColumn   uint32 `json:"endColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	}
	return "note"
}

func sarifPhysical(fs *source.FileSet, span source.Span) *sarifPhysicalLocation {
	pos := resolve(fs, span, PathModeRelative)
	if pos.file == nil {
		return nil
	}
	start := pos.file.Offset(span.Start)
	end := pos.file.Offset(max(span.End, span.Start))
	return &sarifPhysicalLocation{
		ArtifactLocation: sarifArtifact{URI: pos.File},
		Region: sarifRegion{
			StartLine:   pos.Start.Line,
			StartColumn: pos.Start.Col,
			EndLine:     pos.End.Line,
			EndColumn:   pos.End.Col,
			ByteOffset:  start,
			ByteLength:  end - start,
		},
	}
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0). Каждый
// встретившийся код становится правилом; заметки идут в relatedLocations.
func Sarif(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, meta SarifRunMeta) error {
	codes := make([]diag.Code, 0)
	seen := make(map[diag.Code]bool)
	failed := false
	for _, d := range diags {
		if !seen[d.Code] {
			seen[d.Code] = true
			codes = append(codes, d.Code)
		}
		if d.Severity >= diag.SevError {
			failed = true
		}
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	ruleIndex := make(map[diag.Code]int, len(codes))
	rules := make([]sarifRule, len(codes))
	for i, c := range codes {
		ruleIndex[c] = i
		rules[i] = sarifRule{ID: c.ID(), ShortDescription: sarifMessage{Text: c.Title()}}
	}

	name := meta.ToolName
	if name == "" {
		name = "mesozoic"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           name,
			Version:        meta.ToolVersion,
			InformationURI: meta.InformationURI,
			Rules:          rules,
		}},
		Invocations: []sarifInvocation{{
			Arguments:           meta.InvocationArgs,
			ExecutionSuccessful: !failed,
		}},
		Results: make([]sarifResult, 0, len(diags)),
	}
	for _, d := range diags {
		res := sarifResult{
			RuleID:    d.Code.ID(),
			RuleIndex: ruleIndex[d.Code],
			Level:     sarifLevel(d.Severity),
			Message:   sarifMessage{Text: d.Message},
		}
		if pl := sarifPhysical(fs, d.Primary); pl != nil {
			res.Locations = []sarifLocation{{PhysicalLocation: pl}}
		}
		for i, n := range d.Notes {
			res.RelatedLocations = append(res.RelatedLocations, sarifLocation{
				ID:               i + 1,
				PhysicalLocation: sarifPhysical(fs, n.Span),
				Message:          &sarifMessage{Text: n.Msg},
			})
		}
		run.Results = append(run.Results, res)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Version: sarifVersion, Schema: sarifSchema, Runs: []sarifRun{run}})
}
