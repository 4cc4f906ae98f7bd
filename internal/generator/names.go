package generator

import "github.com/stoewer/go-strcase"

// goFieldName converts a wire column name to an exported Go field
// name, e.g. "external_ids" -> "ExternalIds". The two metadata columns
// RFC 7047 gives a leading underscore get their conventional Go names;
// a column literally named "type" becomes the field "Kind" since
// "Type" collides with this package's own vocabulary for a column's
// type algebra, carrying its original wire name in its json tag.
func goFieldName(column string) string {
	switch column {
	case "_uuid":
		return "UUID"
	case "_version":
		return "Version"
	case "type":
		return "Kind"
	}
	return strcase.UpperCamelCase(column)
}

// goTypeName converts a table name, or any other wire identifier used
// as a type name component, to an exported Go identifier, e.g.
// "Logical_Router" -> "LogicalRouter".
func goTypeName(name string) string {
	return strcase.UpperCamelCase(name)
}

// fileName derives the output file name for a table's generated file
// from its Go type name, e.g. "LogicalRouter" -> "logical_router.go".
func fileName(goName string) string {
	return strcase.SnakeCase(goName) + ".go"
}
