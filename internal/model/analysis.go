package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Summary holds response counts for a group slice
type Summary struct {
	TotalResponses int     `json:"total_responses"`
	ValidResponses int     `json:"valid_responses"`
	ShortResponses int     `json:"short_responses"`
	AvgLength      float64 `json:"avg_length"`
}

// Sentiment holds the three sentiment counts over valid responses
type Sentiment struct {
	Positivo int `json:"positivo"`
	Negativo int `json:"negativo"`
	Neutro   int `json:"neutro"`
}

// WordCount is a ranked keyword
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// PhraseCount is a ranked bigram or trigram
type PhraseCount struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count"`
}

// NameCount is a ranked person name
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Highlights are representative excerpts chosen by the analysis engine
type Highlights struct {
	Positive []string `json:"positive"`
	Negative []string `json:"negative"`
}

// GroupData is the qualitative analysis of one segment of responses
type GroupData struct {
	Summary     Summary       `json:"summary"`
	Sentiment   Sentiment     `json:"sentiment"`
	TopWords    []WordCount   `json:"top_words"`
	TopPhrases  []PhraseCount `json:"top_phrases"`
	TopTrigrams []PhraseCount `json:"top_trigrams"`
	TopNames    []NameCount   `json:"top_names"`
	Suggestions []string      `json:"suggestions"`
	Highlights  Highlights    `json:"highlights"`
}

// QuantSummary holds descriptive statistics for a 1-5 scale question
type QuantSummary struct {
	Total   int     `json:"total"`
	Valid   int     `json:"valid"`
	Invalid int     `json:"invalid"`
	Mean    float64 `json:"mean"`
	Median  float64 `json:"median"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// DistributionItem is the share of valid responses at one scale value.
// Pct is rounded upstream and may carry one decimal.
type DistributionItem struct {
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// Distribution maps a scale value ("1".."5") to its share
type Distribution map[string]DistributionItem

// Keys returns the scale values in ascending numeric order.
// Non-numeric keys sort after numeric ones, lexically.
func (d Distribution) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, errA := strconv.ParseFloat(keys[i], 64)
		b, errB := strconv.ParseFloat(keys[j], 64)
		switch {
		case errA == nil && errB == nil:
			return a < b
		case errA == nil:
			return true
		case errB == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// QuantitativeResult is the analysis of one closed-ended question
type QuantitativeResult struct {
	Summary      QuantSummary `json:"summary"`
	Distribution Distribution `json:"distribution"`
}

// AnalysisType tells which payload a question carries
type AnalysisType string

const (
	AnalysisQuantitative AnalysisType = "quantitative"
	AnalysisQualitative  AnalysisType = "qualitative"
)

// QuestionResult is one question of a multi-question analysis.
// Exactly one of Quantitative/Qualitative is expected to match AnalysisType;
// the per-group breakdown is decoded into the map of the same kind.
type QuestionResult struct {
	QuestionNumber string
	AnalysisType   AnalysisType
	TotalResponses int
	Quantitative   *QuantitativeResult
	Qualitative    *GroupData

	QuantByGroup map[string]QuantitativeResult
	QualByGroup  map[string]GroupData
}

type questionWire struct {
	QuestionNumber json.RawMessage     `json:"question_number"`
	AnalysisType   AnalysisType        `json:"analysis_type"`
	TotalResponses int                 `json:"total_responses"`
	Quantitative   *QuantitativeResult `json:"quantitative"`
	Qualitative    *GroupData          `json:"qualitative"`
	ByGroup        json.RawMessage     `json:"by_group,omitempty"`
}

// UnmarshalJSON decodes by_group according to analysis_type and accepts a
// numeric question_number.
func (q *QuestionResult) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	label, err := decodeLabel(w.QuestionNumber)
	if err != nil {
		return fmt.Errorf("question_number: %w", err)
	}

	*q = QuestionResult{
		QuestionNumber: label,
		AnalysisType:   w.AnalysisType,
		TotalResponses: w.TotalResponses,
		Quantitative:   w.Quantitative,
		Qualitative:    w.Qualitative,
	}

	if len(w.ByGroup) == 0 || bytes.Equal(bytes.TrimSpace(w.ByGroup), []byte("null")) {
		return nil
	}
	switch w.AnalysisType {
	case AnalysisQuantitative:
		return json.Unmarshal(w.ByGroup, &q.QuantByGroup)
	case AnalysisQualitative:
		return json.Unmarshal(w.ByGroup, &q.QualByGroup)
	}
	return nil
}

// MarshalJSON writes the wire shape consumed by UnmarshalJSON
func (q QuestionResult) MarshalJSON() ([]byte, error) {
	label, _ := json.Marshal(q.QuestionNumber)
	w := questionWire{
		QuestionNumber: label,
		AnalysisType:   q.AnalysisType,
		TotalResponses: q.TotalResponses,
		Quantitative:   q.Quantitative,
		Qualitative:    q.Qualitative,
	}

	var byGroup any
	switch {
	case q.QuantByGroup != nil:
		byGroup = q.QuantByGroup
	case q.QualByGroup != nil:
		byGroup = q.QualByGroup
	}
	if byGroup != nil {
		raw, err := json.Marshal(byGroup)
		if err != nil {
			return nil, err
		}
		w.ByGroup = raw
	}
	return json.Marshal(w)
}

// IsQuantitative reports whether the question carries a usable quantitative payload
func (q *QuestionResult) IsQuantitative() bool {
	return q.AnalysisType == AnalysisQuantitative && q.Quantitative != nil
}

// IsQualitative reports whether the question carries a usable qualitative payload
func (q *QuestionResult) IsQualitative() bool {
	return q.AnalysisType == AnalysisQualitative && q.Qualitative != nil
}

// HasGroups reports whether the question carries a per-group breakdown
func (q *QuestionResult) HasGroups() bool {
	return len(q.QuantByGroup) > 0 || len(q.QualByGroup) > 0
}

func decodeLabel(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

// ReportConfig is the run metadata shown in the report header
type ReportConfig struct {
	File     string `json:"file,omitempty"`
	Filename string `json:"filename,omitempty"`
	FileID   string `json:"file_id,omitempty"`

	ResponseColumn string `json:"response_column,omitempty"`
	// QuestionColumn and AnswerColumn are set for multi-question runs
	QuestionColumn string `json:"pregunta_column,omitempty"`
	AnswerColumn   string `json:"respuesta_column,omitempty"`

	Filters              map[string]any `json:"filters,omitempty"`
	GroupBy              *string        `json:"group_by,omitempty"`
	TotalRowsAfterFilter int            `json:"total_rows_after_filter"`
}

// SourceFile returns the originating file name
func (c ReportConfig) SourceFile() string {
	if c.File != "" {
		return c.File
	}
	return c.Filename
}

// GroupByColumn returns the grouping column, or "" when the run was not grouped
func (c ReportConfig) GroupByColumn() string {
	if c.GroupBy == nil {
		return ""
	}
	return *c.GroupBy
}

// ExportData is the input of the single-question report
type ExportData struct {
	General   GroupData            `json:"general"`
	ByGroup   map[string]GroupData `json:"by_group"`
	Config    ReportConfig         `json:"config"`
	AISummary string               `json:"aiSummary,omitempty"`
}

// MultiExportData is the input of the multi-question report
type MultiExportData struct {
	Questions []QuestionResult `json:"questions"`
	Config    ReportConfig     `json:"config"`
	AISummary string           `json:"aiSummary,omitempty"`
}
