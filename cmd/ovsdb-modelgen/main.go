// Command ovsdb-modelgen renders native Go record types from an OVSDB
// schema file, one source file per table.
package main

import (
	"flag"
	"log"

	"github.com/ovsdb-go/ovsdb"
	"github.com/ovsdb-go/ovsdb/internal/generator"
)

func main() {
	schemaPath := flag.String("schema", "", "path to a schema JSON file (as returned by get_schema)")
	outDir := flag.String("out", "", "output directory for generated Go files")
	flag.Parse()

	if *schemaPath == "" || *outDir == "" {
		log.Fatal("ovsdb-modelgen: both -schema and -out are required")
	}

	schema, err := ovsdb.LoadSchemaFile(*schemaPath)
	if err != nil {
		log.Fatalf("ovsdb-modelgen: %v", err)
	}
	if err := generator.Generate(schema, *outDir); err != nil {
		log.Fatalf("ovsdb-modelgen: %v", err)
	}
}
