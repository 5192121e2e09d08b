package report

import "errors"

type Kind string

const (
	KindTimesheetSummary Kind = "timesheet-summary"
	KindLeaveSummary     Kind = "leave-summary"
	KindEscalations      Kind = "escalations"
)

type Format string

const (
	FormatExcel Format = "xlsx"
	FormatPDF   Format = "pdf"
)

var (
	ErrUnknownKind   = errors.New("unknown report kind")
	ErrUnknownFormat = errors.New("unknown report format")
)

// ParseKind validates a report kind from the URL
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindTimesheetSummary, KindLeaveSummary, KindEscalations:
		return k, nil
	}
	return "", ErrUnknownKind
}

// ParseFormat validates a report format, defaulting to Excel
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "":
		return FormatExcel, nil
	case FormatExcel, FormatPDF:
		return f, nil
	}
	return "", ErrUnknownFormat
}

// File is a generated report streamed back from the backend
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}
