package kernel

// Error codes shared by all kernel modules. The values match the numeric
// codes emitted in trace records so a trace dump can be correlated with the
// error that produced it.
const (
	// ErrCodeNone indicates a successful operation.
	ErrCodeNone = uint32(0)

	// ErrCodeNullPointer indicates that a null pointer was detected.
	ErrCodeNullPointer = uint32(1)

	// ErrCodeUnauthorized indicates an action the kernel refuses to
	// perform, e.g. raising an interrupt vector above the supported line.
	ErrCodeUnauthorized = uint32(2)
)

// Error describes a kernel error. All kernel errors must be defined as global
// variables that are pointers to the Error structure. This requirement stems
// from the fact that the Go allocator is not available to us so we cannot use
// errors.New.
type Error struct {
	// Code is the numeric error code reported in trace records.
	Code uint32

	// The module where the error occurred.
	Module string

	// The error message.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
