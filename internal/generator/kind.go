package generator

import (
	"fmt"
	"sort"

	"github.com/ovsdb-go/ovsdb"
)

// fieldData describes a single generated struct field, carried by both
// the native and wire struct templates.
type fieldData struct {
	ColumnName   string
	GoName       string
	NativeType   string
	WireType     string
	ToNativeExpr string
	ToWireExpr   string
}

// enumVariant is a single named constant of a generated enum type.
type enumVariant struct {
	ConstName string
	Raw       string
}

// enumData describes a generated enum type for a column restricted to
// an explicit set of choices.
type enumData struct {
	Column       string
	TypeName     string
	DefaultConst string
	Variants     []enumVariant
}

// atomicGoType maps an RFC 7047 atomic type to its native Go type.
func atomicGoType(a ovsdb.Atomic) string {
	switch a {
	case ovsdb.AtomicBoolean:
		return "bool"
	case ovsdb.AtomicInteger:
		return "int64"
	case ovsdb.AtomicReal:
		return "float64"
	case ovsdb.AtomicString:
		return "string"
	case ovsdb.AtomicUUID:
		return "ovsdb.Uuid"
	default:
		return "interface{}"
	}
}

// buildEnum derives the enumerated type generated for a column whose
// key carries an explicit list of choices. RFC 7047 assigns no order
// to a column's choices and names no default; this generator sorts
// choices lexically for deterministic output and designates the first
// of them, by that order, as the type's default (empty-set) variant.
func buildEnum(tableGoName, column string, choices []string) enumData {
	sorted := append([]string(nil), choices...)
	sort.Strings(sorted)

	typeName := tableGoName + goTypeName(column)
	variants := make([]enumVariant, 0, len(sorted))
	for _, raw := range sorted {
		variants = append(variants, enumVariant{
			ConstName: typeName + goTypeName(raw),
			Raw:       raw,
		})
	}
	return enumData{
		Column:       column,
		TypeName:     typeName,
		DefaultConst: variants[0].ConstName,
		Variants:     variants,
	}
}

// buildField derives a column's native/wire field pair and, if the
// column is enumerated, the enum type it requires.
func buildField(tableGoName string, col *ovsdb.Column) (fieldData, *enumData) {
	goName := goFieldName(col.Name)

	var enum *enumData
	baseType := atomicGoType(col.Kind.Key.Atomic)
	if col.Kind.IsEnum() {
		e := buildEnum(tableGoName, col.Name, col.Kind.Key.Choices)
		enum = &e
		baseType = e.TypeName
	}

	data := fieldData{ColumnName: col.Name, GoName: goName}

	switch {
	case col.Kind.IsMap():
		valType := atomicGoType(col.Kind.Value.Atomic)
		data.NativeType = fmt.Sprintf("map[%s]%s", baseType, valType)
		data.WireType = fmt.Sprintf("ovsdb.Map[%s, %s]", baseType, valType)
		data.ToNativeExpr = fmt.Sprintf("ovsdb.MapToNative(w.%s)", goName)
		data.ToWireExpr = fmt.Sprintf("ovsdb.MapFromNative(n.%s)", goName)

	case col.Kind.IsOptional():
		data.NativeType = "*" + baseType
		data.WireType = fmt.Sprintf("ovsdb.Optional[%s]", baseType)
		data.ToNativeExpr = fmt.Sprintf("ovsdb.OptionalToPointer(w.%s)", goName)
		data.ToWireExpr = fmt.Sprintf("ovsdb.OptionalFromPointer(n.%s)", goName)

	case col.Kind.IsSet():
		if col.Kind.Key.Atomic == ovsdb.AtomicUUID {
			data.NativeType = "[]ovsdb.Uuid"
			data.WireType = "ovsdb.UuidSet"
			data.ToNativeExpr = fmt.Sprintf("ovsdb.UuidSetToSlice(w.%s)", goName)
			data.ToWireExpr = fmt.Sprintf("ovsdb.UuidSetFromSlice(n.%s)", goName)
		} else {
			data.NativeType = "[]" + baseType
			data.WireType = fmt.Sprintf("ovsdb.Set[%s]", baseType)
			data.ToNativeExpr = fmt.Sprintf("ovsdb.SetToSlice(w.%s)", goName)
			data.ToWireExpr = fmt.Sprintf("ovsdb.SetFromSlice(n.%s)", goName)
		}

	default:
		data.NativeType = baseType
		data.WireType = baseType
		data.ToNativeExpr = "w." + goName
		data.ToWireExpr = "n." + goName
	}

	return data, enum
}
