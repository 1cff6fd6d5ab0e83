package error

// Severity represents the severity level of an error
type Severity int

const (
	// SeverityLow marks problems in user input (bad source, bad flags)
	SeverityLow Severity = iota

	// SeverityMedium is the default for errors without a more specific code
	SeverityMedium

	// SeverityHigh marks problems in the tool's own environment
	SeverityHigh
)

// String returns the string representation of the severity level
func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	default:
		return "unknown"
	}
}

// GetSeverityFromCode determines appropriate severity level based on error code
func GetSeverityFromCode(code Code) Severity {
	switch code {
	case CodeUnexpectedCharacter, CodeSyntax, CodeInvalidInput, CodeNotFound:
		return SeverityLow
	case CodeInternal, CodeIO, CodeInvalidKeywordTable, CodeIncompatibleKeywordTable, CodeConfigError:
		return SeverityHigh
	default:
		return SeverityMedium
	}
}
