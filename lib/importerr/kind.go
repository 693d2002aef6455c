package importerr

// Kind is the flat error taxonomy surfaced by an import.
type Kind string

const (
	NoColumns             Kind = "NoColumns"
	TableNotFound         Kind = "TableNotFound"
	ColumnMismatch        Kind = "ColumnMismatch"
	DuplicateColumnNames  Kind = "DuplicateColumnNames"
	MandatoryFileNotFound Kind = "MandatoryFileNotFound"
	InvalidSourceData     Kind = "InvalidSourceData"
	DataTypeMismatch      Kind = "DataTypeMismatch"
	InvalidCsvParams      Kind = "InvalidCsvParams"
	StringTooLong         Kind = "StringTooLong"
	QueryTimeout          Kind = "QueryTimeout"
	UnknownError          Kind = "UnknownError"
)

func (k Kind) String() string {
	return string(k)
}

// IsValidation returns true for kinds caused by the import definition rather than by the data or the warehouse.
func (k Kind) IsValidation() bool {
	switch k {
	case NoColumns, TableNotFound, ColumnMismatch, DuplicateColumnNames, InvalidCsvParams:
		return true
	default:
		return false
	}
}
