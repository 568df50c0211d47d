package ports

// Table is a named, already formatted output table.
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// TableWriterPort persists result tables for downstream plotting and mapping
type TableWriterPort interface {
	// Write stores every table and returns the paths written
	Write(tables ...Table) ([]string, error)
}
