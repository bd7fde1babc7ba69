package typing

// DType is the logical type inferred for a CSV column.
type DType string

const (
	Int64      DType = "int64"
	Int        DType = "int"
	Float64    DType = "float64"
	Bool       DType = "bool"
	Datetime64 DType = "datetime64[ns]"
	Object     DType = "object"
	Category   DType = "category"
)

// MaxVarcharLength is the largest VARCHAR length Snowflake accepts.
const MaxVarcharLength = 16777216

func (d DType) IsInteger() bool {
	return d == Int64 || d == Int
}
