package errors

// ErrorCode identifies a failure category. Codes are stable strings so they
// can be used as log fields and metric labels without further mapping.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes.
const (
	CodeOK       ErrorCode = "OK"
	CodeUnknown  ErrorCode = "COMMON_000"
	CodeInternal ErrorCode = "COMMON_001"
	CodeNotFound ErrorCode = "COMMON_002"
	CodeConflict ErrorCode = "COMMON_003"
	CodeInvalid  ErrorCode = "COMMON_004"
	CodeTimeout  ErrorCode = "COMMON_005"
)

// Docking pipeline error codes.
const (
	// CodeInvalidConfig marks a configuration that failed semantic validation
	// (missing required fields, malformed values).
	CodeInvalidConfig ErrorCode = "DOCK_001"

	// CodePathNotFound marks a required input path that does not exist.
	CodePathNotFound ErrorCode = "DOCK_002"

	// CodePathExists marks an output directory that already exists; runs never
	// reuse a previous run's output directory.
	CodePathExists ErrorCode = "DOCK_003"

	// CodeToolFailure marks an external binary that exited non-zero.
	CodeToolFailure ErrorCode = "DOCK_004"

	// CodeEmptyOutput marks a converter that exited zero but produced an
	// empty output file.
	CodeEmptyOutput ErrorCode = "DOCK_005"

	// CodeParseFailure marks a structure or molecule file that could not be
	// parsed.
	CodeParseFailure ErrorCode = "DOCK_006"
)
