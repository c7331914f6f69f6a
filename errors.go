package svoexport

import (
	"errors"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOpen            = errors.New("unable to open the recording")
	ErrRange           = errors.New("invalid frame range")
	ErrSinkOpen        = errors.New("unable to open the output")
	ErrGrab            = errors.New("unable to grab a frame")
	ErrSinkWrite       = errors.New("unable to write to the output")

	// ErrEndOfStream is returned by Source.Grab when there are no more
	// frames. The exporter treats it as a truncated, but successful, export.
	ErrEndOfStream = errors.New("end of the recording reached")
)

// Exit statuses of the command line tools.
const (
	ExitCodeOK              = 0
	ExitCodeFailure         = 1
	ExitCodeInvalidArgument = 2
	ExitCodeOpen            = 3
	ExitCodeRange           = 4
	ExitCodeSinkOpen        = 5
	ExitCodeExport          = 6
)

// ExitCode maps an error returned by the exporter to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitCodeOK
	case errors.Is(err, ErrInvalidArgument):
		return ExitCodeInvalidArgument
	case errors.Is(err, ErrOpen):
		return ExitCodeOpen
	case errors.Is(err, ErrRange):
		return ExitCodeRange
	case errors.Is(err, ErrSinkOpen):
		return ExitCodeSinkOpen
	case errors.Is(err, ErrGrab), errors.Is(err, ErrSinkWrite):
		return ExitCodeExport
	default:
		return ExitCodeFailure
	}
}
