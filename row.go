package ovsdb

import "encoding/json"

// Row is a single result row from a "select" operation: each column's
// wire-encoded value, held as raw JSON until a caller (hand-written or
// generator-emitted) knows which Go type to decode it as. Unlike the
// rest of this package's types, Row never has to guess a column's
// shape from its bytes alone — the caller always has the Column (and
// therefore its Kind) to decode against.
type Row map[string]json.RawMessage

// UnmarshalJSON decodes a result row: a JSON object whose values are
// left as raw JSON for per-column decoding.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &DecodeError{Err: err}
	}
	*r = raw
	return nil
}

// Has reports whether the row carries the named column at all,
// distinct from the column being present but JSON null.
func (r Row) Has(column string) bool {
	_, ok := r[column]
	return ok
}

// Get decodes the named column's raw value into v. It is a no-op
// returning nil if the column is absent from the row, so callers can
// decode a generated struct's optional fields unconditionally.
func (r Row) Get(column string, v interface{}) error {
	raw, ok := r[column]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return &DecodeError{Err: err}
	}
	return nil
}
