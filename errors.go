package ovsdb

import (
	"errors"
	"fmt"
)

// Schema errors (C2).
var (
	// ErrFileNotFound is returned when a schema file does not exist.
	ErrFileNotFound = errors.New("ovsdb: schema file not found")
	// ErrPermissionDenied is returned when a schema file cannot be read
	// due to filesystem permissions.
	ErrPermissionDenied = errors.New("ovsdb: permission denied reading schema file")
	// ErrRead is returned for any other schema file I/O failure.
	ErrRead = errors.New("ovsdb: failed to read schema file")
)

// ParseError wraps a JSON engine diagnostic encountered while parsing a
// schema document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("ovsdb: parse error: %v", e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// UnknownFieldError reports a schema object carrying a field this parser
// does not recognize.
type UnknownFieldError struct {
	Field    string
	Expected []string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("ovsdb: unknown field %q, expected one of %v", e.Field, e.Expected)
}

// InvalidValueError reports a wire value that did not match the shape a
// decoder required.
type InvalidValueError struct {
	Got      string
	Expected string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("ovsdb: invalid value %q, expected %s", e.Got, e.Expected)
}

// Codec errors (C3).

// EncodeError wraps a JSON marshaling failure while framing an outbound
// envelope. Non-fatal to the codec's internal state.
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return fmt.Sprintf("ovsdb: encode error: %v", e.Err) }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError wraps a JSON unmarshaling failure on an otherwise
// well-framed message. Non-fatal to the codec's internal state.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("ovsdb: decode error: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// DataStreamCorruptedError reports a byte stream that could not be
// resynchronized to a message boundary. Fatal to the runtime.
type DataStreamCorruptedError struct {
	Detail string
}

func (e *DataStreamCorruptedError) Error() string {
	return fmt.Sprintf("ovsdb: corrupted data stream: %s", e.Detail)
}

// Client errors (C4).
var (
	// ErrConnectionFailed is returned when the initial dial fails.
	ErrConnectionFailed = errors.New("ovsdb: failed to establish connection")
	// ErrCommunicationFailure indicates the transport or codec failed
	// fatally; the runtime has exited.
	ErrCommunicationFailure = errors.New("ovsdb: communication with server failed")
	// ErrUnexpectedResult indicates a reply whose result field could not
	// be decoded into the caller's requested type.
	ErrUnexpectedResult = errors.New("ovsdb: unexpected result shape")
	// ErrNotRunning indicates a method was called after stop.
	ErrNotRunning = errors.New("ovsdb: client is not running")
	// ErrShutdownFailed indicates the runtime task did not terminate
	// cleanly.
	ErrShutdownFailed = errors.New("ovsdb: shutdown failed")
	// ErrCanceled indicates a waiter whose request was abandoned by a
	// runtime shutdown before a reply arrived.
	ErrCanceled = errors.New("ovsdb: request canceled")
	// ErrInternal wraps a channel-send or reply-receive synchronization
	// failure that should not occur in normal operation.
	ErrInternal = errors.New("ovsdb: internal synchronization failure")
)

// ServerError reports a response carrying RFC 7047's per-call "error"
// field. It is a normal, method-level failure (e.g. "no such table")
// and does not imply the runtime has exited; contrast
// ErrCommunicationFailure.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return fmt.Sprintf("ovsdb: server error: %s", e.Message) }
