package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/yaklabco/rtftplint/pkg/runner"
	"github.com/yaklabco/rtftplint/pkg/structure"
)

// SARIF version used by this reporter.
const sarifVersion = "2.1.0"

// SARIF schema URI.
const sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"

const (
	sarifToolName = "rtftplint"
	sarifToolURI  = "https://github.com/yaklabco/rtftplint"
)

// SARIFOutput represents the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun represents a single analysis run.
type SARIFRun struct {
	Tool      SARIFTool       `json:"tool"`
	Artifacts []SARIFArtifact `json:"artifacts,omitempty"`
	Results   []SARIFResult   `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver contains tool metadata and rules.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one kind of template failure.
type SARIFRule struct {
	ID               string               `json:"id"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
}

// SARIFMultiformatText contains text in multiple formats.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig contains rule configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFArtifact describes a scanned template.
type SARIFArtifact struct {
	Location SARIFArtifactLocation `json:"location"`
	Length   int64                 `json:"length,omitempty"`
	Hashes   map[string]string     `json:"hashes,omitempty"`
}

// SARIFResult represents a single failure.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
}

// SARIFMessage contains the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation describes a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation contains file path and region.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           *SARIFRegion          `json:"region,omitempty"`
}

// SARIFArtifactLocation contains the file URI.
type SARIFArtifactLocation struct {
	URI   string `json:"uri"`
	Index *int   `json:"index,omitempty"`
}

// SARIFRegion describes the affected text region.
type SARIFRegion struct {
	StartLine int `json:"startLine"`
}

// ruleUnreadable is reported for templates that could not be read or tokenized.
const ruleUnreadable = "unreadable-template"

// sarifRules lists every rule in a fixed order so ruleIndex is stable.
//
//nolint:gochecknoglobals // Read-only lookup table.
var sarifRules = []SARIFRule{
	sarifRule(structure.UnmatchedEnd.String(), "End directive without a matching open block"),
	sarifRule(structure.MismatchedEnd.String(), "End directive does not close the innermost open block"),
	sarifRule(structure.SortOutsideIteration.String(), "SORT directive outside a WHILE block"),
	sarifRule(structure.UnclosedBlock.String(), "Blocks left open at the end of the template"),
	sarifRule(ruleUnreadable, "Template could not be read or is not RTF"),
}

func sarifRule(id, text string) SARIFRule {
	return SARIFRule{
		ID:               id,
		ShortDescription: SARIFMultiformatText{Text: text},
		DefaultConfig:    &SARIFRuleConfig{Level: "error"},
	}
}

func sarifRuleIndex(id string) int {
	for i, rule := range sarifRules {
		if rule.ID == id {
			return i
		}
	}
	return len(sarifRules) - 1
}

// SARIFReporter formats results as SARIF.
type SARIFReporter struct {
	opts Options
	out  io.Writer
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(opts Options) *SARIFReporter {
	return &SARIFReporter{
		opts: opts,
		out:  opts.Writer,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(_ context.Context, result *runner.Result) (int, error) {
	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.out)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode SARIF: %w", err)
	}

	return len(output.Runs[0].Results), nil
}

func (r *SARIFReporter) buildOutput(result *runner.Result) *SARIFOutput {
	version := r.opts.ToolVersion
	if version == "" {
		version = "dev"
	}

	run := SARIFRun{
		Tool: SARIFTool{
			Driver: SARIFDriver{
				Name:           sarifToolName,
				Version:        version,
				InformationURI: sarifToolURI,
				Rules:          sarifRules,
			},
		},
		Results: make([]SARIFResult, 0),
	}

	if result != nil {
		for _, file := range result.Files {
			r.addFile(&run, file)
		}
	}

	return &SARIFOutput{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs:    []SARIFRun{run},
	}
}

func (r *SARIFReporter) addFile(run *SARIFRun, file runner.FileOutcome) {
	uri := filepath.ToSlash(displayPath(file.Path, r.opts.WorkingDir))

	artifact := SARIFArtifact{Location: SARIFArtifactLocation{URI: uri}}
	if file.Info != nil {
		artifact.Length = file.Info.Size
		artifact.Hashes = map[string]string{"sha-256": file.Info.HashHex()}
	}
	index := len(run.Artifacts)
	run.Artifacts = append(run.Artifacts, artifact)

	if file.Status() == runner.StatusValid {
		return
	}

	ruleID := ruleUnreadable
	var region *SARIFRegion
	if serr, ok := file.StructureError(); ok {
		ruleID = serr.Kind.String()
		if serr.Line > 0 {
			region = &SARIFRegion{StartLine: serr.Line}
		}
	}

	run.Results = append(run.Results, SARIFResult{
		RuleID:    ruleID,
		RuleIndex: sarifRuleIndex(ruleID),
		Level:     "error",
		Message:   SARIFMessage{Text: file.Error.Error()},
		Locations: []SARIFLocation{{
			PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: uri, Index: &index},
				Region:           region,
			},
		}},
	})
}
