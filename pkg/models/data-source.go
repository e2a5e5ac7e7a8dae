package models

// Where a derived column's value came from. Auto values are recomputed when the
// fields they are derived from change; manual values are left alone.
const (
	DataSourceAuto   = "auto"
	DataSourceManual = "manual"
)
