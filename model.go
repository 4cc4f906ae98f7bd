package ovsdb

// TableName identifies a table by its schema name.
type TableName = string

// Entity is implemented by every native record type the generator
// emits (internal/generator) for a table. It is deliberately the only
// contract a hand-written caller needs: given a row decoded against a
// table's schema, TableName says which table it came from, so a
// caller juggling results from several tables can dispatch on it
// without reflection.
//
// This replaces the teacher's reflection-driven Model/DBModel pair,
// which existed to let a monitor-backed cache construct and index
// model instances by table name at runtime; this client is
// transact-only, so that registration-and-construct-by-reflection
// machinery has no job to do here.
type Entity interface {
	// TableName returns the name of the table this value represents.
	TableName() TableName
}
