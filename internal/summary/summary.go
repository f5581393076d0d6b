package summary

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/review-profiler/internal/analysis"
	"github.com/KaramelBytes/review-profiler/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the summary lands when no output path is given.
const DefaultPath = "analysis_info.json"

// Record is the flat summary handed to downstream training steps. Unresolved
// columns and undefined ratios are written as null.
type Record struct {
	TextCol              *string        `json:"text_col" yaml:"text_col"`
	TitleCol             *string        `json:"title_col" yaml:"title_col"`
	PolarityCol          *string        `json:"polarity_col" yaml:"polarity_col"`
	TypeCol              *string        `json:"type_col" yaml:"type_col"`
	TotalSamples         int            `json:"total_samples" yaml:"total_samples"`
	PolarityImbalance    *float64       `json:"polarity_imbalance" yaml:"polarity_imbalance"`
	TypeImbalance        *float64       `json:"type_imbalance" yaml:"type_imbalance"`
	PolarityDistribution map[string]int `json:"polarity_distribution" yaml:"polarity_distribution"`
	TypeDistribution     map[string]int `json:"type_distribution" yaml:"type_distribution"`
	Source               string         `json:"source,omitempty" yaml:"source,omitempty"`
	RunID                string         `json:"run_id" yaml:"run_id"`
	GeneratedAt          time.Time      `json:"generated_at" yaml:"generated_at"`
}

// WriteError reports a summary that could not be persisted.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write summary %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// FromReport builds the record for a finished profile run.
func FromReport(rep *analysis.Report, source string) Record {
	rec := Record{
		TextCol:              optional(rep.TextColumn()),
		TitleCol:             optional(rep.Selection.Title),
		PolarityCol:          optional(rep.Selection.Polarity),
		TypeCol:              optional(rep.Selection.Type),
		TotalSamples:         rep.Rows,
		PolarityDistribution: rep.Polarity.Counts(),
		TypeDistribution:     rep.Type.Counts(),
		Source:               source,
		RunID:                uuid.NewString(),
		GeneratedAt:          time.Now().UTC().Truncate(time.Second),
	}
	if rep.PolarityImbalance.Defined {
		r := rep.PolarityImbalance.Ratio
		rec.PolarityImbalance = &r
	}
	if rep.TypeImbalance.Defined {
		r := rep.TypeImbalance.Ratio
		rec.TypeImbalance = &r
	}
	return rec
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Write replaces path with the encoded record. The format follows the file
// extension: YAML for .yaml/.yml, indented JSON otherwise.
func Write(path string, rec Record) error {
	if path == "" {
		path = DefaultPath
	}
	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(rec)
		if err != nil {
			err = fmt.Errorf("marshal yaml: %w", err)
		}
	} else {
		data, err = utils.PrettyJSON(rec)
	}
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := utils.SafeWriteFile(path, data); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	log.Info().Str("path", path).Str("run_id", rec.RunID).Msg("summary written")
	return nil
}

// Read loads a summary written by Write.
func Read(path string) (*Record, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	var rec Record
	if isYAML(path) {
		err = yaml.Unmarshal(b, &rec)
	} else {
		err = json.Unmarshal(b, &rec)
	}
	if err != nil {
		return nil, fmt.Errorf("decode summary %s: %w", path, err)
	}
	return &rec, nil
}
