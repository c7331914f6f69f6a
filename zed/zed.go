// Package zed reads Stereolabs SVO recordings through the ZED SDK.
package zed

import (
	"context"
	"fmt"
	"sync"

	"github.com/xaionaro-go/svoexport"
)

// ErrorCode is a status returned by the ZED SDK.
type ErrorCode int

const (
	ErrorCodeSuccess                = ErrorCode(0)
	ErrorCodeFailure                = ErrorCode(1)
	ErrorCodeNoGPUCompatible        = ErrorCode(2)
	ErrorCodeNotEnoughGPUMemory     = ErrorCode(3)
	ErrorCodeInvalidSVOFile         = ErrorCode(13)
	ErrorCodeSVORecordingError      = ErrorCode(14)
	ErrorCodeSVOUnsupportedCompress = ErrorCode(15)
	ErrorCodeEndOfSVOFileReached    = ErrorCode(16)
	ErrorCodeInvalidFunctionCall    = ErrorCode(21)
	ErrorCodeCorruptedSDKInstall    = ErrorCode(22)
)

func (c ErrorCode) String() string {
	switch c {
	case ErrorCodeSuccess:
		return "SUCCESS"
	case ErrorCodeFailure:
		return "FAILURE"
	case ErrorCodeNoGPUCompatible:
		return "NO_GPU_COMPATIBLE"
	case ErrorCodeNotEnoughGPUMemory:
		return "NOT_ENOUGH_GPU_MEMORY"
	case ErrorCodeInvalidSVOFile:
		return "INVALID_SVO_FILE"
	case ErrorCodeSVORecordingError:
		return "SVO_RECORDING_ERROR"
	case ErrorCodeSVOUnsupportedCompress:
		return "SVO_UNSUPPORTED_COMPRESSION"
	case ErrorCodeEndOfSVOFileReached:
		return "END_OF_SVOFILE_REACHED"
	case ErrorCodeInvalidFunctionCall:
		return "INVALID_FUNCTION_CALL"
	case ErrorCodeCorruptedSDKInstall:
		return "CORRUPTED_SDK_INSTALLATION"
	}
	return fmt.Sprintf("ERROR_CODE_%d", int(c))
}

func (c ErrorCode) Error() string {
	return c.String()
}

// grabError converts the status of a grab into the error
// svoexport.Source.Grab is expected to return.
func grabError(c ErrorCode) error {
	switch c {
	case ErrorCodeSuccess:
		return nil
	case ErrorCodeEndOfSVOFileReached:
		return fmt.Errorf("%w: %w", svoexport.ErrEndOfStream, c)
	default:
		return c
	}
}

// MaxCameras is the amount of cameras the SDK C interface can hold open
// at the same time.
const MaxCameras = 20

type cameraIDPool struct {
	locker sync.Mutex
	used   [MaxCameras]bool
}

func (p *cameraIDPool) Acquire() (int, error) {
	p.locker.Lock()
	defer p.locker.Unlock()
	for id, used := range p.used {
		if !used {
			p.used[id] = true
			return id, nil
		}
	}
	return -1, fmt.Errorf("all %d camera slots are in use", MaxCameras)
}

func (p *cameraIDPool) Release(id int) {
	p.locker.Lock()
	defer p.locker.Unlock()
	p.used[id] = false
}

var cameraIDs cameraIDPool

type Opener struct{}

var _ svoexport.Opener = Opener{}

func (Opener) Open(ctx context.Context, path string) (svoexport.Source, error) {
	s, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return s, nil
}
