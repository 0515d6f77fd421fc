package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/evalplatform/evalreport/pkg/errors"
)

// Kind identifies the analysis schema of a report
type Kind string

const (
	KindLegacy Kind = "legacy"
	KindMulti  Kind = "multi"
)

// Schema versions. Version 1 is the untagged shape stored before the tag
// existed; it is only ever inferred, never written.
const (
	SchemaVersionUntagged = 1
	SchemaVersionCurrent  = 2
)

// Valid reports whether k names a known schema
func (k Kind) Valid() bool {
	return k == KindLegacy || k == KindMulti
}

// Document is a report input whose schema was decided once, at load time.
// Exactly one of Legacy and Multi is set, matching Kind.
type Document struct {
	Kind          Kind
	SchemaVersion int
	Legacy        *ExportData
	Multi         *MultiExportData
}

// NewLegacyDocument wraps single-question data
func NewLegacyDocument(data *ExportData) *Document {
	return &Document{Kind: KindLegacy, SchemaVersion: SchemaVersionCurrent, Legacy: data}
}

// NewMultiDocument wraps multi-question data
func NewMultiDocument(data *MultiExportData) *Document {
	return &Document{Kind: KindMulti, SchemaVersion: SchemaVersionCurrent, Multi: data}
}

// Config returns the run metadata of either variant
func (d *Document) Config() ReportConfig {
	switch d.Kind {
	case KindLegacy:
		if d.Legacy != nil {
			return d.Legacy.Config
		}
	case KindMulti:
		if d.Multi != nil {
			return d.Multi.Config
		}
	}
	return ReportConfig{}
}

// AISummary returns the embedded AI summary of either variant
func (d *Document) AISummary() string {
	switch d.Kind {
	case KindLegacy:
		if d.Legacy != nil {
			return d.Legacy.AISummary
		}
	case KindMulti:
		if d.Multi != nil {
			return d.Multi.AISummary
		}
	}
	return ""
}

// SourceFile returns the originating file name
func (d *Document) SourceFile() string {
	return d.Config().SourceFile()
}

// documentEnvelope is the tagged wire form written by MarshalJSON
type documentEnvelope struct {
	Kind          Kind            `json:"kind"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
}

// MarshalJSON always writes the tagged envelope
func (d Document) MarshalJSON() ([]byte, error) {
	var payload any
	switch d.Kind {
	case KindLegacy:
		payload = d.Legacy
	case KindMulti:
		payload = d.Multi
	default:
		return nil, fmt.Errorf("unknown document kind %q", d.Kind)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	version := d.SchemaVersion
	if version < SchemaVersionCurrent {
		version = SchemaVersionCurrent
	}
	return json.Marshal(documentEnvelope{Kind: d.Kind, SchemaVersion: version, Data: data})
}

// UnmarshalJSON accepts both the tagged envelope and untagged payloads
func (d *Document) UnmarshalJSON(raw []byte) error {
	doc, err := ParseDocument(raw)
	if err != nil {
		return err
	}
	*d = *doc
	return nil
}

// shapeProbe captures just enough of a payload to tell the schemas apart
type shapeProbe struct {
	Kind          Kind            `json:"kind"`
	SchemaVersion int             `json:"schema_version"`
	Data          json.RawMessage `json:"data"`
	Questions     json.RawMessage `json:"questions"`
	General       json.RawMessage `json:"general"`
}

// ParseDocument decodes a report input. A "kind" tag is honoured when
// present; otherwise the schema is inferred once from the payload shape:
// an array-typed "questions" field means multi, an object-typed "general"
// field means legacy.
func ParseDocument(raw []byte) (*Document, error) {
	var probe shapeProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation, "invalid report JSON", err)
	}

	if probe.Kind != "" {
		if !probe.Kind.Valid() {
			return nil, errors.New(errors.ErrCodeUnknownSchema,
				fmt.Sprintf("unknown report kind %q", probe.Kind))
		}
		payload := raw
		if len(probe.Data) > 0 {
			payload = probe.Data
		}
		version := probe.SchemaVersion
		if version == 0 {
			version = SchemaVersionCurrent
		}
		return decodeDocument(probe.Kind, version, payload)
	}

	switch {
	case jsonKind(probe.Questions) == '[':
		return decodeDocument(KindMulti, SchemaVersionUntagged, raw)
	case jsonKind(probe.General) == '{':
		return decodeDocument(KindLegacy, SchemaVersionUntagged, raw)
	}
	return nil, errors.New(errors.ErrCodeUnknownSchema,
		"report JSON has neither a questions array nor a general object")
}

func decodeDocument(kind Kind, version int, payload []byte) (*Document, error) {
	doc := &Document{Kind: kind, SchemaVersion: version}
	var err error
	switch kind {
	case KindLegacy:
		doc.Legacy = &ExportData{}
		err = json.Unmarshal(payload, doc.Legacy)
	case KindMulti:
		doc.Multi = &MultiExportData{}
		err = json.Unmarshal(payload, doc.Multi)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeValidation,
			fmt.Sprintf("invalid %s report payload", kind), err)
	}
	return doc, nil
}

// jsonKind returns the first significant byte of a JSON value, or 0
func jsonKind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
