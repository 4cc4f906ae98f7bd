package generator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovsdb-go/ovsdb"
)

const testSchema = `
{
	"name": "Test",
	"version": "1.0.0",
	"tables": {
		"Logical_Router": {
			"columns": {
				"name": {"type": "string"},
				"enabled": {"type": {"key": "boolean", "min": 0, "max": 1}},
				"nat_ip": {"type": {"key": "string", "min": 0, "max": "unlimited"}},
				"ports": {"type": {"key": {"type": "uuid", "refTable": "Logical_Router_Port"}, "min": 0, "max": "unlimited"}},
				"external_ids": {"type": {"key": "string", "value": "string", "min": 0, "max": "unlimited"}},
				"protocol": {"type": {"key": {"type": "string", "enum": ["set", ["tcp", "udp"]]}}}
			}
		}
	}
}`

func parseTestSchema(t *testing.T) *ovsdb.Schema {
	t.Helper()
	schema, err := ovsdb.ParseSchema([]byte(testSchema))
	require.NoError(t, err)
	return schema
}

func TestBuildTableData(t *testing.T) {
	schema := parseTestSchema(t)
	table := schema.Table("Logical_Router")
	require.NotNil(t, table)

	data := buildTableData("model", "Logical_Router", table)
	assert.Equal(t, "LogicalRouter", data.NativeName)
	assert.Equal(t, "LogicalRouterRow", data.WireName)
	assert.Len(t, data.Fields, 6)
	assert.Len(t, data.Enums, 1)

	byName := make(map[string]fieldData, len(data.Fields))
	for _, f := range data.Fields {
		byName[f.ColumnName] = f
	}

	assert.Equal(t, "string", byName["name"].NativeType)
	assert.Equal(t, "*bool", byName["enabled"].NativeType)
	assert.Equal(t, "[]string", byName["nat_ip"].NativeType)
	assert.Equal(t, "[]ovsdb.Uuid", byName["ports"].NativeType)
	assert.Equal(t, "ovsdb.UuidSet", byName["ports"].WireType)
	assert.Equal(t, "map[string]string", byName["external_ids"].NativeType)
	assert.Equal(t, "ovsdb.Map[string, string]", byName["external_ids"].WireType)

	protocol := byName["protocol"]
	assert.Equal(t, "LogicalRouterProtocol", protocol.NativeType)

	require.Len(t, data.Enums, 1)
	enum := data.Enums[0]
	assert.Equal(t, "LogicalRouterProtocol", enum.TypeName)
	assert.Equal(t, "LogicalRouterProtocolTcp", enum.DefaultConst)
	require.Len(t, enum.Variants, 2)
	assert.Equal(t, "tcp", enum.Variants[0].Raw)
	assert.Equal(t, "udp", enum.Variants[1].Raw)
}

func TestGenerateWritesFiles(t *testing.T) {
	schema := parseTestSchema(t)
	outDir := filepath.Join(t.TempDir(), "model")

	require.NoError(t, Generate(schema, outDir))

	tablePath := filepath.Join(outDir, "logical_router.go")
	content, err := os.ReadFile(tablePath)
	require.NoError(t, err)

	src := string(content)
	assert.Contains(t, src, "type LogicalRouter struct")
	assert.Contains(t, src, "type LogicalRouterRow struct")
	assert.Contains(t, src, "func (r *LogicalRouter) TableName() ovsdb.TableName")
	assert.Contains(t, src, `return "Logical_Router"`)
	assert.Contains(t, src, "type LogicalRouterProtocol string")
	assert.Contains(t, src, "ToLogicalRouter() *LogicalRouter")
	assert.Contains(t, src, "func FromLogicalRouter(n *LogicalRouter) *LogicalRouterRow")

	indexContent, err := os.ReadFile(filepath.Join(outDir, "index.go"))
	require.NoError(t, err)
	assert.Contains(t, string(indexContent), "NativeTypes")
	assert.Contains(t, string(indexContent), `"Logical_Router":`)
}
