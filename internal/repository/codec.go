package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/alexanderramin/timebox/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Codec converts between the on-disk bytes of a flat-file store and records.
// Decode errors are wrapped with ErrCorrupt.
type Codec interface {
	Name() string
	Encode(records []domain.Record) ([]byte, error)
	Decode(data []byte) ([]domain.Record, error)
}

// rawRecord distinguishes a missing key from an empty value while decoding.
type rawRecord struct {
	Title       *string `json:"title" yaml:"title" toml:"title"`
	StartTime   *string `json:"start_time" yaml:"start_time" toml:"start_time"`
	EndTime     *string `json:"end_time" yaml:"end_time" toml:"end_time"`
	Description *string `json:"description" yaml:"description" toml:"description"`
}

func (r rawRecord) toRecord(i int) (domain.Record, error) {
	switch {
	case r.Title == nil:
		return domain.Record{}, corruptf("record %d: missing title", i)
	case r.StartTime == nil:
		return domain.Record{}, corruptf("record %d: missing start_time", i)
	case r.EndTime == nil:
		return domain.Record{}, corruptf("record %d: missing end_time", i)
	}
	rec := domain.Record{Title: *r.Title, StartTime: *r.StartTime, EndTime: *r.EndTime}
	if r.Description != nil {
		rec.Description = *r.Description
	}
	return rec, nil
}

func toRecords(raws []rawRecord) ([]domain.Record, error) {
	records := make([]domain.Record, 0, len(raws))
	for i, raw := range raws {
		rec, err := raw.toRecord(i)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func nonNil(records []domain.Record) []domain.Record {
	if records == nil {
		return []domain.Record{}
	}
	return records
}

// JSONCodec stores a top-level array of objects.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(records []domain.Record) ([]byte, error) {
	data, err := json.MarshalIndent(nonNil(records), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (JSONCodec) Decode(data []byte) ([]domain.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var raws []rawRecord
	if err := dec.Decode(&raws); err != nil {
		return nil, corruptf("decoding json: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, corruptf("decoding json: trailing data after session list")
	}
	if raws == nil {
		return nil, corruptf("decoding json: null is not a session list")
	}
	return toRecords(raws)
}

// YAMLCodec stores a top-level sequence of mappings.
type YAMLCodec struct{}

func (YAMLCodec) Name() string { return "yaml" }

func (YAMLCodec) Encode(records []domain.Record) ([]byte, error) {
	return yaml.Marshal(nonNil(records))
}

func (YAMLCodec) Decode(data []byte) ([]domain.Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raws []rawRecord
	if err := dec.Decode(&raws); err != nil {
		return nil, corruptf("decoding yaml: %v", err)
	}
	if raws == nil {
		return nil, corruptf("decoding yaml: null is not a session list")
	}
	return toRecords(raws)
}

// TOMLCodec stores an array of tables named "sessions".
type TOMLCodec struct{}

type tomlDocument struct {
	Sessions []domain.Record `toml:"sessions"`
}

type tomlRawDocument struct {
	Sessions *[]rawRecord `toml:"sessions"`
}

func (TOMLCodec) Name() string { return "toml" }

func (TOMLCodec) Encode(records []domain.Record) ([]byte, error) {
	return toml.Marshal(tomlDocument{Sessions: nonNil(records)})
}

func (TOMLCodec) Decode(data []byte) ([]domain.Record, error) {
	var doc tomlRawDocument
	if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, corruptf("decoding toml: %v", err)
	}
	if doc.Sessions == nil {
		return nil, corruptf("decoding toml: missing sessions array")
	}
	return toRecords(*doc.Sessions)
}
