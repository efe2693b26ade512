package spanerrors

import (
	"bytes"
	"fmt"
	"github.com/illuscio-dev/spanbody-go/encoding"
	"github.com/illuscio-dev/spanbody-go/mimetype"
	"github.com/satori/go.uuid"
	"golang.org/x/xerrors"
	"runtime/debug"
	"strconv"
)

/*
SpanErrorType describes a KIND of error a service or library can communicate,
as opposed to a single occurrence of one. Every type carries a human-readable
name and an api code, and both need to be unique within the ecosystem so
clients can identify the error no matter which service raised it.

Codes 1000-1999 are reserved for Spanreed's default definitions. Body handling
claims 1007-1011 inside that block.

Error types are passed around as pointers, so the fields are kept private and
exposed through getter methods. A consuming package therefore cannot mutate a
shared definition by accident. Declare new types with NewSpanErrorType().
*/
type SpanErrorType struct {
	name     string
	apiCode  int
	httpCode int
}

// Name returns the unique human-readable name of the error type.
func (errType *SpanErrorType) Name() string {
	return errType.name
}

// ApiCode returns the unique numeric identifier of the error type.
func (errType *SpanErrorType) ApiCode() int {
	return errType.apiCode
}

// HttpCode returns the http status to send when this error type is returned.
// A value of -1 means the status gets picked dynamically.
func (errType *SpanErrorType) HttpCode() int {
	return errType.httpCode
}

// WithHttpCode derives a copy of the error type that reports newHttpCode from
// HttpCode(). The receiver is left untouched.
func (errType *SpanErrorType) WithHttpCode(newHttpCode int) *SpanErrorType {
	derived := *errType
	derived.httpCode = newHttpCode
	return &derived
}

// Error makes the type definition itself usable as an error value, which lets
// callers compare a concrete error against the definition it came from.
func (errType *SpanErrorType) Error() string {
	return fmt.Sprintf("%v (%v)", errType.name, errType.apiCode)
}

// New creates a SpanError of this type, stamping it with a fresh uuid and the
// stack of the call site.
func (errType *SpanErrorType) New(
	message string,
	errorData map[string]interface{},
	source error,
) *SpanError {
	return &SpanError{
		SpanErrorType: errType,
		Message:       message,
		Id:            uuid.NewV4(),
		ErrorData:     errorData,
		cause:         source,
		panicStack:    debug.Stack(),
		callerFrame:   xerrors.Caller(0),
	}
}

// Panic creates a SpanError of this type and immediately panics with it. Meant
// for code running under middleware that recovers SpanError values, so a
// deeply nested helper can abort without threading the error through every
// return in between.
func (errType *SpanErrorType) Panic(
	message string,
	errorData map[string]interface{},
	source error,
) {
	panic(errType.New(message, errorData, source))
}

// SpanError is a single occurrence of a SpanErrorType.
type SpanError struct {
	// The definition this occurrence belongs to.
	*SpanErrorType

	// Human-readable detail about what went wrong this time.
	Message string

	// Identifies this exact occurrence, e.g. for log correlation.
	Id uuid.UUID

	// Arbitrary key / value context to ship alongside the error.
	ErrorData map[string]interface{}

	// Error that triggered this one, when there was one.
	cause error

	// debug.Stack() captured where the error was created.
	panicStack []byte

	// xerrors frame captured where the error was created.
	callerFrame xerrors.Frame
}

// IsType reports whether the error belongs to the given type definition. The
// http code is ignored here, since WithHttpCode() derives variants that still
// count as the same error.
func (spanErr *SpanError) IsType(errType *SpanErrorType) bool {
	return spanErr.name == errType.name && spanErr.apiCode == errType.apiCode
}

// Error conforms to the builtin error interface.
func (spanErr *SpanError) Error() string {
	return spanErr.SpanErrorType.Error() + " - " + spanErr.Message
}

// Unwrap exposes the causing error to xerrors.Is / xerrors.As.
func (spanErr *SpanError) Unwrap() error {
	return spanErr.cause
}

// LogMessage renders a verbose report of the error including the causing error
// and the creation stack. Kept out of Error() and ToHeader() on purpose: the
// stack and wrapped internals may hold details a client should never see.
func (spanErr *SpanError) LogMessage() string {
	return fmt.Sprintf(
		"\nMESSAGE: %v\nORIGINAL: %v\nPANIC STACK:\n%v",
		spanErr.Error(),
		spanErr.cause,
		string(spanErr.panicStack),
	)
}

// Interface for objects an error can be written to as headers. Satisfied by
// http.Header among others.
type headerSetter interface {
	Set(key string, value string)
}

// ToHeader writes the error to setter as a group of 'error-*' headers. The
// ErrorData mapping travels as JSON rendered by dataEngine and is skipped
// entirely when nil.
func (spanErr *SpanError) ToHeader(
	setter headerSetter, dataEngine encoding.ContentEngine,
) error {
	setter.Set("error-name", spanErr.name)
	setter.Set("error-code", strconv.Itoa(spanErr.apiCode))
	setter.Set("error-message", spanErr.Message)
	setter.Set("error-id", spanErr.Id.String())

	if spanErr.ErrorData == nil {
		return nil
	}

	encoded := new(bytes.Buffer)
	if err := dataEngine.Encode(mimetype.JSON, spanErr.ErrorData, encoded); err != nil {
		return err
	}
	setter.Set("error-data", encoded.String())

	return nil
}
