package sql

import (
	"fmt"
	"strings"
)

// QuoteLiteral wraps [value] in single quotes, escaping backslashes and single quotes so the literal compiles.
func QuoteLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return fmt.Sprintf("'%s'", strings.ReplaceAll(value, "'", `\'`))
}
