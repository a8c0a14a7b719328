package store

import (
	"fmt"
	"strings"
)

// buildInClause constructs a parameterized "field IN ($1, $2, ...)"
// fragment, following internal/db/builder.go's BuildSimpleWhereClause
// pattern. The original Rust source string-concatenated integer IDs
// directly into the query under the argument that u32 values carry no
// injection risk; here IDs are just another driver argument, and it costs
// nothing to avoid the string-concatenation habit entirely.
func buildInClause(field string, count int, offset int) (fragment string, placeholderCount int) {
	if count == 0 {
		return "FALSE", 0
	}
	placeholders := make([]string, count)
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", offset+i+1)
	}
	return fmt.Sprintf("%s IN (%s)", field, strings.Join(placeholders, ", ")), count
}
