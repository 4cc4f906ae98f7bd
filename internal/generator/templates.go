package generator

import "text/template"

// tmplFuncs supplies a backtick producer so struct tag literals can be
// written without breaking out of the backtick-delimited template
// source strings below.
var tmplFuncs = template.FuncMap{
	"bq": func() string { return "`" },
}

var tableTemplate = template.Must(template.New("table").Funcs(tmplFuncs).Parse(`// Code generated by ovsdb-modelgen from the "{{.TableName}}" table. DO NOT EDIT.

package {{.PackageName}}

import "github.com/ovsdb-go/ovsdb"
{{range $enum := .Enums}}
// {{$enum.TypeName}} is the enumerated type generated for the
// "{{$enum.Column}}" column's choices.
type {{$enum.TypeName}} string

const (
{{range $v := $enum.Variants}}	{{$v.ConstName}} {{$enum.TypeName}} = "{{$v.Raw}}"
{{end}})

// MarshalJSON implements the enum wire contract: the default variant
// encodes as an empty set, every other variant as its raw string.
func (v {{$enum.TypeName}}) MarshalJSON() ([]byte, error) {
	return ovsdb.MarshalEnum(v, {{$enum.DefaultConst}})
}

// UnmarshalJSON implements the enum wire contract's decode half.
func (v *{{$enum.TypeName}}) UnmarshalJSON(b []byte) error {
	variants := map[string]{{$enum.TypeName}}{
{{range $v := $enum.Variants}}		"{{$v.Raw}}": {{$v.ConstName}},
{{end}}	}
	val, err := ovsdb.UnmarshalEnum(b, {{$enum.DefaultConst}}, variants)
	if err != nil {
		return err
	}
	*v = val
	return nil
}
{{end}}
// {{.NativeName}} is the native Go representation of a row in the
// "{{.TableName}}" table.
type {{.NativeName}} struct {
{{range .Fields}}	{{.GoName}} {{.NativeType}}
{{end}}}

// TableName implements ovsdb.Entity.
func (r *{{.NativeName}}) TableName() ovsdb.TableName {
	return "{{.TableName}}"
}

// {{.WireName}} is the wire representation of a row in the
// "{{.TableName}}" table, decoded straight out of a select result row.
type {{.WireName}} struct {
{{range .Fields}}	{{.GoName}} {{.WireType}} {{bq}}json:"{{.ColumnName}}"{{bq}}
{{end}}}

// To{{.NativeName}} converts a decoded wire row to its native form.
func (w *{{.WireName}}) To{{.NativeName}}() *{{.NativeName}} {
	return &{{.NativeName}}{
{{range .Fields}}		{{.GoName}}: {{.ToNativeExpr}},
{{end}}	}
}

// From{{.NativeName}} converts a native row to its wire form.
func From{{.NativeName}}(n *{{.NativeName}}) *{{.WireName}} {
	return &{{.WireName}}{
{{range .Fields}}		{{.GoName}}: {{.ToWireExpr}},
{{end}}	}
}
`))

var indexTemplate = template.Must(template.New("index").Funcs(tmplFuncs).Parse(`// Code generated by ovsdb-modelgen. DO NOT EDIT.

package {{.PackageName}}

import "github.com/ovsdb-go/ovsdb"

// NativeTypes maps each table name in this schema to a constructor for
// its generated native record type. It is the only place a caller
// juggling rows from several tables needs to dispatch on table name
// without reflection.
var NativeTypes = map[ovsdb.TableName]func() ovsdb.Entity{
{{range .Tables}}	"{{.TableName}}": func() ovsdb.Entity { return &{{.NativeName}}{} },
{{end}}}
`))
