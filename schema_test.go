package ovsdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchemaJSON = `
{
	"name": "Open_vSwitch",
	"version": "8.3.0",
	"cksum": "123 4567",
	"tables": {
		"Bridge": {
			"columns": {
				"name": {"type": "string"},
				"ports": {"type": {"key": {"type": "uuid", "refTable": "Port"}, "min": 0, "max": "unlimited"}},
				"fail_mode": {"type": {"key": {"type": "string", "enum": ["set", ["standalone", "secure"]]}, "min": 0, "max": 1}},
				"external_ids": {"type": {"key": "string", "value": "string", "min": 0, "max": "unlimited"}},
				"datapath_type": {"type": "string", "ephemeral": false, "mutable": true}
			}
		}
	}
}`

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema([]byte(testSchemaJSON))
	require.NoError(t, err)
	assert.Equal(t, "Open_vSwitch", schema.Name)
	assert.Equal(t, "8.3.0", schema.Version)

	table := schema.Table("Bridge")
	require.NotNil(t, table)
	assert.Equal(t, "Bridge", table.Name)
	assert.Len(t, table.Columns, 5)
}

func TestColumnKindClassification(t *testing.T) {
	schema, err := ParseSchema([]byte(testSchemaJSON))
	require.NoError(t, err)

	name, err := schema.Column("Bridge", "name")
	require.NoError(t, err)
	assert.True(t, name.Kind.IsScalar())

	ports, err := schema.Column("Bridge", "ports")
	require.NoError(t, err)
	assert.True(t, ports.Kind.IsSet())
	assert.Equal(t, AtomicUUID, ports.Kind.Key.Atomic)
	require.NotNil(t, ports.Kind.Key.RefTable)
	assert.Equal(t, "Port", *ports.Kind.Key.RefTable)

	failMode, err := schema.Column("Bridge", "fail_mode")
	require.NoError(t, err)
	assert.True(t, failMode.Kind.IsOptional())
	assert.True(t, failMode.Kind.IsEnum())
	assert.ElementsMatch(t, []string{"standalone", "secure"}, failMode.Kind.Key.Choices)

	extIDs, err := schema.Column("Bridge", "external_ids")
	require.NoError(t, err)
	assert.True(t, extIDs.Kind.IsMap())
	assert.Equal(t, Unlimited, extIDs.Kind.Max)
}

func TestColumnUnknownNameReturnsError(t *testing.T) {
	schema, err := ParseSchema([]byte(testSchemaJSON))
	require.NoError(t, err)

	_, err = schema.Column("Bridge", "nonexistent")
	require.Error(t, err)
	var ive *InvalidValueError
	assert.ErrorAs(t, err, &ive)

	_, err = schema.Column("Nonexistent", "name")
	require.Error(t, err)
	assert.ErrorAs(t, err, &ive)
}

func TestTableWithNoColumnsIsRejected(t *testing.T) {
	_, err := ParseSchema([]byte(`{"name": "X", "version": "0.0.0", "tables": {"Empty": {"columns": {}}}}`))
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestColumnMissingTypeIsRejected(t *testing.T) {
	_, err := ParseSchema([]byte(`{"name": "X", "version": "0.0.0", "tables": {"T": {"columns": {"c": {}}}}}`))
	require.Error(t, err)
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestBaseKindUnknownFieldIsRejected(t *testing.T) {
	_, err := ParseSchema([]byte(`{"name": "X", "version": "0.0.0", "tables": {"T": {"columns": {"c": {"type": {"bogus": 1}}}}}}`))
	require.Error(t, err)
	var ufe *UnknownFieldError
	assert.ErrorAs(t, err, &ufe)
}

func TestLoadSchemaFileNotFound(t *testing.T) {
	_, err := LoadSchemaFile("/nonexistent/path/to/schema.json")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
}
