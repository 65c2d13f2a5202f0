package entities

// LoadResult is the outcome of loading one source: either a table or the reason it failed
type LoadResult struct {
	Source string
	Table  *Table
	Err    error
}

// Loaded reports whether the source produced a table
func (r LoadResult) Loaded() bool {
	return r.Err == nil && r.Table != nil
}
