package infusion

import "fmt"

// MalformedCatalogError is returned by Build when the input rows are
// internally inconsistent: a pair references an unknown infusion ID, or the
// same unordered pair is given twice with conflicting counts.
type MalformedCatalogError struct {
	Reason string
}

func (e MalformedCatalogError) Error() string {
	return fmt.Sprintf("malformed catalog: %s", e.Reason)
}
