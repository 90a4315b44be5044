package logging

// Standardized field names for structured logging. These keep log output
// consistent across ingestion, classification and export.
const (
	FieldFile       = "file_path"
	FieldBank       = "bank"
	FieldSection    = "section"
	FieldPage       = "page"
	FieldYear       = "year"
	FieldRun        = "run_id"
	FieldCount      = "count"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldError      = "error"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
