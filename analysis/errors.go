package analysis

import "fmt"

// The pipeline's failures are batch-fatal: each error names the source,
// column or zone at fault and stops the run rather than letting NaN or Inf
// drift into the models and plots.

// MissingColumnError reports a source column absent from a loaded table.
type MissingColumnError struct {
	Source string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: source column %s not found", e.Source, e.Column)
}

// EmptyJoinError reports a merge that produced no rows.
type EmptyJoinError struct {
	Key string
}

func (e *EmptyJoinError) Error() string {
	return fmt.Sprintf("no zones matched on %s", e.Key)
}

// DivisionUndefinedError reports a zone whose average income is undefined
// because it has no tax returns.
type DivisionUndefinedError struct {
	Zone string
}

func (e *DivisionUndefinedError) Error() string {
	return fmt.Sprintf("zone %s has no returns; average income undefined", e.Zone)
}
