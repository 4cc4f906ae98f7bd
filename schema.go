package ovsdb

import (
	"encoding/json"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
)

// Unlimited is the sentinel value used for Kind.Max when the wire
// schema specifies the string "unlimited".
const Unlimited = -1

// Atomic is one of OVSDB's five scalar types.
type Atomic string

// The five atomic kinds defined by RFC 7047.
const (
	AtomicBoolean Atomic = "boolean"
	AtomicInteger Atomic = "integer"
	AtomicReal    Atomic = "real"
	AtomicString  Atomic = "string"
	AtomicUUID    Atomic = "uuid"
)

// RefType distinguishes strong from weak table references.
type RefType string

// The two reference kinds a uuid-typed column may carry.
const (
	RefStrong RefType = "strong"
	RefWeak   RefType = "weak"
)

// BaseKind is an atomic type plus its optional refinements, as used for
// both a Kind's key and (for maps) its value.
type BaseKind struct {
	Atomic     Atomic
	Choices    []string
	MinInteger *int64
	MaxInteger *int64
	MinReal    *float64
	MaxReal    *float64
	MinLength  *int64
	MaxLength  *int64
	RefTable   *string
	RefType    RefType
}

var baseKindFields = []string{
	"type", "enum", "minInteger", "maxInteger", "minReal", "maxReal",
	"minLength", "maxLength", "refTable", "refType",
}

// UnmarshalJSON accepts either a bare atomic-name string or an object
// carrying "type" plus any subset of the refinement fields.
func (b *BaseKind) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		b.Atomic = Atomic(bare)
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Err: err}
	}

	for key, val := range raw {
		var err error
		switch key {
		case "type":
			err = json.Unmarshal(val, &b.Atomic)
		case "enum":
			// The wire form is itself a Set<string>: ["set", [...]]
			// or, for a singleton, a bare string.
			var choices Set[string]
			if e := json.Unmarshal(val, &choices); e == nil {
				b.Choices = choices.GoSet
			} else {
				err = e
			}
		case "minInteger":
			b.MinInteger = new(int64)
			err = json.Unmarshal(val, b.MinInteger)
		case "maxInteger":
			b.MaxInteger = new(int64)
			err = json.Unmarshal(val, b.MaxInteger)
		case "minReal":
			b.MinReal = new(float64)
			err = json.Unmarshal(val, b.MinReal)
		case "maxReal":
			b.MaxReal = new(float64)
			err = json.Unmarshal(val, b.MaxReal)
		case "minLength":
			b.MinLength = new(int64)
			err = json.Unmarshal(val, b.MinLength)
		case "maxLength":
			b.MaxLength = new(int64)
			err = json.Unmarshal(val, b.MaxLength)
		case "refTable":
			b.RefTable = new(string)
			err = json.Unmarshal(val, b.RefTable)
		case "refType":
			err = json.Unmarshal(val, &b.RefType)
		default:
			return &UnknownFieldError{Field: key, Expected: baseKindFields}
		}
		if err != nil {
			return &ParseError{Err: err}
		}
	}
	return nil
}

// Kind is a column's type algebra: an atomic key, an optional value
// (present iff the column is a map), and a min/max cardinality.
type Kind struct {
	Key   BaseKind
	Value *BaseKind
	Min   int
	Max   int
}

var kindFields = []string{"key", "value", "min", "max"}

// UnmarshalJSON accepts a bare atomic name, a direct BaseKind object, or
// a full {"key", "value", "min", "max"} object.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var bare string
	if err := json.Unmarshal(data, &bare); err == nil {
		k.Key = BaseKind{Atomic: Atomic(bare)}
		k.Min, k.Max = 1, 1
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return &ParseError{Err: err}
	}

	// A bare BaseKind object has a "type" field and no "key" field.
	if _, hasKey := raw["key"]; !hasKey {
		var base BaseKind
		if err := json.Unmarshal(data, &base); err != nil {
			return err
		}
		k.Key = base
		k.Min, k.Max = 1, 1
		return nil
	}

	k.Min, k.Max = 1, 1
	for key, val := range raw {
		var err error
		switch key {
		case "key":
			err = json.Unmarshal(val, &k.Key)
		case "value":
			k.Value = new(BaseKind)
			err = json.Unmarshal(val, k.Value)
		case "min":
			err = json.Unmarshal(val, &k.Min)
		case "max":
			var asString string
			if e := json.Unmarshal(val, &asString); e == nil {
				if asString != "unlimited" {
					return &InvalidValueError{Got: asString, Expected: `integer or "unlimited"`}
				}
				k.Max = Unlimited
			} else {
				err = json.Unmarshal(val, &k.Max)
			}
		default:
			return &UnknownFieldError{Field: key, Expected: kindFields}
		}
		if err != nil {
			return &ParseError{Err: err}
		}
	}
	return nil
}

// IsScalar reports whether the column holds a single atomic value.
func (k Kind) IsScalar() bool {
	return k.Value == nil && k.Min == 1 && k.Max == 1
}

// IsOptional reports whether the column holds zero or one value.
func (k Kind) IsOptional() bool {
	return k.Min == 0 && k.Max == 1
}

// IsSet reports whether the column holds an ordered collection of a
// single atomic type, with a cardinality other than exactly one.
func (k Kind) IsSet() bool {
	return k.Value == nil && (k.Min != 1 || k.Max != 1)
}

// IsMap reports whether the column holds key/value pairs.
func (k Kind) IsMap() bool {
	return k.Value != nil
}

// IsEnum reports whether the column has no value type and its key is
// restricted to an explicit set of choices, whatever its cardinality.
func (k Kind) IsEnum() bool {
	return k.Value == nil && k.Key.Choices != nil
}

// Column is a single column definition within a Table.
type Column struct {
	Name      string
	Kind      Kind
	Ephemeral bool
	Mutable   bool
}

type columnWire struct {
	Type      json.RawMessage `json:"type"`
	Ephemeral bool            `json:"ephemeral"`
	Mutable   bool            `json:"mutable"`
}

// UnmarshalJSON parses a column's "type" field through Kind's three
// surface forms.
func (c *Column) UnmarshalJSON(data []byte) error {
	var wire columnWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return &ParseError{Err: err}
	}
	c.Ephemeral = wire.Ephemeral
	c.Mutable = wire.Mutable
	if len(wire.Type) == 0 {
		return &ParseError{Err: errors.New(`column missing required field "type"`)}
	}
	return json.Unmarshal(wire.Type, &c.Kind)
}

// Table is a single table definition within a Schema.
type Table struct {
	Name    string
	IsRoot  bool
	MaxRows *int
	Columns map[string]*Column
}

type tableWire struct {
	IsRoot  bool                `json:"isRoot"`
	MaxRows *int                `json:"maxRows"`
	Columns map[string]*Column  `json:"columns"`
}

// UnmarshalJSON parses a table and attaches each column's name, which
// the wire form only carries as a map key.
func (t *Table) UnmarshalJSON(data []byte) error {
	var wire tableWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return &ParseError{Err: err}
	}
	t.IsRoot = wire.IsRoot
	t.MaxRows = wire.MaxRows
	t.Columns = wire.Columns
	for name, col := range t.Columns {
		col.Name = name
	}
	if len(t.Columns) == 0 {
		return &ParseError{Err: errors.New("table has no columns")}
	}
	return nil
}

// Schema is a parsed OVSDB database schema, as produced by
// `ovsdb-client get-schema` or received as the result of a get_schema
// RPC. Schemas are immutable once parsed.
type Schema struct {
	Name    string
	Version string
	Cksum   string
	Tables  map[string]*Table
}

type schemaWire struct {
	Name    string             `json:"name"`
	Version string             `json:"version"`
	Cksum   string             `json:"cksum"`
	Tables  map[string]*Table  `json:"tables"`
}

// UnmarshalJSON parses a schema and attaches each table's name.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var wire schemaWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return &ParseError{Err: err}
	}
	s.Name = wire.Name
	s.Version = wire.Version
	s.Cksum = wire.Cksum
	s.Tables = wire.Tables
	for name, tbl := range s.Tables {
		tbl.Name = name
	}
	return nil
}

// ParseSchema parses a schema document: the bare schema object as
// returned by get_schema's result field.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		if pe, ok := err.(*ParseError); ok {
			return nil, pe
		}
		return nil, &ParseError{Err: err}
	}
	return &schema, nil
}

// LoadSchemaFile reads and parses a schema from disk, classifying I/O
// failures per the Schema error taxonomy.
func LoadSchemaFile(path string) (*Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case os.IsNotExist(err):
			return nil, errors.Wrapf(ErrFileNotFound, "%s", path)
		case os.IsPermission(err):
			return nil, errors.Wrapf(ErrPermissionDenied, "%s", path)
		default:
			return nil, errors.Wrapf(ErrRead, "%s: %v", path, err)
		}
	}
	defer f.Close()

	data, err := ioutil.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(ErrRead, "%s: %v", path, err)
	}
	return ParseSchema(data)
}

// Table returns the named table's schema, or nil if it does not exist.
func (s *Schema) Table(name string) *Table {
	return s.Tables[name]
}

// Column returns the named column's schema within the named table, or
// an error if either the table or the column does not exist.
func (s *Schema) Column(tableName, columnName string) (*Column, error) {
	table, ok := s.Tables[tableName]
	if !ok {
		return nil, &InvalidValueError{Got: tableName, Expected: "known table name"}
	}
	col, ok := table.Columns[columnName]
	if !ok {
		return nil, &InvalidValueError{Got: columnName, Expected: "known column name in table " + tableName}
	}
	return col, nil
}
