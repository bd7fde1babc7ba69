package dialect

import "fmt"

var _dialect = SnowflakeDialect{}

type TableIdentifier struct {
	database string
	schema   string
	table    string
}

func NewTableIdentifier(database, schema, table string) TableIdentifier {
	return TableIdentifier{
		database: database,
		schema:   schema,
		table:    table,
	}
}

func (ti TableIdentifier) Database() string {
	return ti.database
}

func (ti TableIdentifier) Schema() string {
	return ti.schema
}

func (ti TableIdentifier) Table() string {
	return ti.table
}

func (ti TableIdentifier) EscapedTable() string {
	return _dialect.QuoteIdentifier(ti.table)
}

func (ti TableIdentifier) WithTable(table string) TableIdentifier {
	return NewTableIdentifier(ti.database, ti.schema, table)
}

func (ti TableIdentifier) FullyQualifiedName() string {
	return fmt.Sprintf("%s.%s.%s", _dialect.QuoteIdentifier(ti.database), _dialect.QuoteIdentifier(ti.schema), ti.EscapedTable())
}

// TableStage is the table's internal stage, used for PUT and COPY INTO.
func (ti TableIdentifier) TableStage() string {
	return ti.WithTable("%" + ti.table).FullyQualifiedName()
}

// NamedStage is a stage that lives in the same database and schema as the table.
func (ti TableIdentifier) NamedStage(name string) string {
	return fmt.Sprintf("%s.%s.%s/", _dialect.QuoteIdentifier(ti.database), _dialect.QuoteIdentifier(ti.schema), _dialect.QuoteIdentifier(name))
}
