package sheets

import "errors"

var (
	ErrNotAnArchive       = errors.New("not an Excel 2007+ package")
	ErrMissingEntry       = errors.New("package entry doesn't exist")
	ErrMalformedReference = errors.New("malformed cell reference")
	ErrSharedStringIndex  = errors.New("shared string index out of range")
	ErrEmptyTable         = errors.New("table has no header row")
)
