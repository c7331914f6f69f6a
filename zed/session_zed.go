//go:build with_zed
// +build with_zed

package zed

/*
#cgo CFLAGS: -I/usr/local/zed/include
#cgo LDFLAGS: -L/usr/local/zed/lib -lsl_zed_c
#include <stdlib.h>
#include <sl/c_api/zed_interface.h>
*/
import "C"

import (
	"context"
	"fmt"
	"unsafe"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/svoexport"
	"github.com/xaionaro-go/svoexport/frame"
	"github.com/xaionaro-go/svoexport/internal"
	"github.com/xaionaro-go/xsync"
)

// Session is an SVO file opened for sequential reading, with depth
// measures in millimeters.
type Session struct {
	Path   string
	Locker xsync.Mutex

	cameraID int
	info     svoexport.RecordingInfo
	closed   bool

	imageMat unsafe.Pointer
	depthMat unsafe.Pointer
	runtime  C.struct_SL_RuntimeParameters
}

var _ svoexport.Source = (*Session)(nil)

func Open(
	ctx context.Context,
	path string,
) (_ret *Session, _err error) {
	logger.Debugf(ctx, "Open(ctx, '%s')", path)
	defer func() { logger.Debugf(ctx, "/Open(ctx, '%s'): %v", path, _err) }()

	cameraID, err := cameraIDs.Acquire()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", svoexport.ErrOpen, err)
	}
	defer func() {
		if _err != nil {
			cameraIDs.Release(cameraID)
		}
	}()

	if !bool(C.sl_create_camera(C.int(cameraID))) {
		return nil, fmt.Errorf("%w: unable to create a camera instance", svoexport.ErrOpen)
	}

	var initParams C.struct_SL_InitParameters
	initParams.input_type = C.SL_INPUT_TYPE_SVO
	initParams.resolution = C.SL_RESOLUTION_HD720
	initParams.camera_device_id = C.int(cameraID)
	initParams.svo_real_time_mode = C.bool(false)
	initParams.depth_mode = C.SL_DEPTH_MODE_PERFORMANCE
	initParams.depth_stabilization = 1
	initParams.depth_minimum_distance = -1
	initParams.depth_maximum_distance = -1
	initParams.coordinate_unit = C.SL_UNIT_MILLIMETER
	initParams.coordinate_system = C.SL_COORDINATE_SYSTEM_IMAGE
	initParams.sdk_gpu_id = -1
	initParams.sdk_verbose = 0
	initParams.enable_image_enhancement = C.bool(true)
	initParams.open_timeout_sec = 5

	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))
	cEmpty := C.CString("")
	defer C.free(unsafe.Pointer(cEmpty))

	code := ErrorCode(C.sl_open_camera(
		C.int(cameraID), &initParams, 0,
		cPath, cEmpty, 0, cEmpty, cEmpty, cEmpty,
	))
	if code != ErrorCodeSuccess {
		C.sl_close_camera(C.int(cameraID))
		return nil, fmt.Errorf("%w '%s': %w", svoexport.ErrOpen, path, code)
	}

	s := &Session{
		Path:     path,
		cameraID: cameraID,
		info: svoexport.RecordingInfo{
			FrameCount: int(C.sl_get_svo_number_of_frames(C.int(cameraID))),
			Width:      int(C.sl_get_width(C.int(cameraID))),
			Height:     int(C.sl_get_height(C.int(cameraID))),
			FrameRate:  float64(C.sl_get_camera_fps(C.int(cameraID))),
		},
	}
	s.runtime.reference_frame = C.SL_REFERENCE_FRAME_CAMERA
	s.runtime.enable_depth = C.bool(true)
	s.runtime.confidence_threshold = 95
	s.runtime.texture_confidence_threshold = 100
	s.runtime.remove_saturated_areas = C.bool(true)

	internal.SetFinalizerClose(ctx, s, (*Session).Close)
	logger.Debugf(ctx, "'%s': %#+v", path, s.info)
	return s, nil
}

func (s *Session) Info() svoexport.RecordingInfo {
	return s.info
}

func (s *Session) Seek(
	ctx context.Context,
	frameIndex int,
) error {
	return xsync.DoR1(ctx, &s.Locker, func() error {
		if s.closed {
			return fmt.Errorf("the session is closed")
		}
		if frameIndex < 0 || frameIndex >= s.info.FrameCount {
			return fmt.Errorf("frame %d is out of range [0, %d)", frameIndex, s.info.FrameCount)
		}
		C.sl_set_svo_position(C.int(s.cameraID), C.int(frameIndex))
		return nil
	})
}

func (s *Session) Grab(
	ctx context.Context,
) error {
	return xsync.DoR1(ctx, &s.Locker, func() error {
		if s.closed {
			return fmt.Errorf("the session is closed")
		}
		return grabError(ErrorCode(C.sl_grab(C.int(s.cameraID), &s.runtime)))
	})
}

func (s *Session) Position() int {
	ctx := context.TODO()
	return xsync.DoR1(ctx, &s.Locker, func() int {
		if s.closed {
			return -1
		}
		return int(C.sl_get_svo_position(C.int(s.cameraID)))
	})
}

func sdkView(view svoexport.View) (C.enum_SL_VIEW, error) {
	switch view {
	case svoexport.ViewLeft:
		return C.SL_VIEW_LEFT, nil
	case svoexport.ViewRight:
		return C.SL_VIEW_RIGHT, nil
	case svoexport.ViewDepth:
		return C.SL_VIEW_DEPTH, nil
	default:
		return 0, fmt.Errorf("view %s cannot be retrieved as an image", view)
	}
}

func (s *Session) RetrieveImage(
	ctx context.Context,
	view svoexport.View,
	dst *frame.BGRA,
) error {
	return xsync.DoR1(ctx, &s.Locker, func() error {
		return s.retrieveImage(ctx, view, dst)
	})
}

func (s *Session) retrieveImage(
	ctx context.Context,
	view svoexport.View,
	dst *frame.BGRA,
) error {
	if s.closed {
		return fmt.Errorf("the session is closed")
	}
	slView, err := sdkView(view)
	if err != nil {
		return err
	}
	if dst.Width != s.info.Width || dst.Height != s.info.Height {
		return fmt.Errorf("unexpected buffer size %dx%d, expected %dx%d", dst.Width, dst.Height, s.info.Width, s.info.Height)
	}
	if s.imageMat == nil {
		s.imageMat = C.sl_mat_create_new(C.int(s.info.Width), C.int(s.info.Height), C.SL_MAT_TYPE_U8_C4, C.SL_MEM_CPU)
	}

	code := ErrorCode(C.sl_retrieve_image(
		C.int(s.cameraID), s.imageMat, slView, C.SL_MEM_CPU,
		C.int(s.info.Width), C.int(s.info.Height),
	))
	if code != ErrorCodeSuccess {
		return fmt.Errorf("unable to retrieve the %s view: %w", view, code)
	}

	ptr := unsafe.Pointer(C.sl_mat_get_ptr(s.imageMat, C.SL_MEM_CPU))
	step := int(C.sl_mat_get_step_bytes(s.imageMat, C.SL_MEM_CPU))
	src := unsafe.Slice((*byte)(ptr), step*dst.Height)
	rowLen := dst.Width * 4
	for y := 0; y < dst.Height; y++ {
		copy(dst.Row(y), src[y*step:y*step+rowLen])
	}
	logger.Tracef(ctx, "retrieved the %s view", view)
	return nil
}

func (s *Session) RetrieveDepth(
	ctx context.Context,
	dst *frame.Depth,
) error {
	return xsync.DoR1(ctx, &s.Locker, func() error {
		return s.retrieveDepth(ctx, dst)
	})
}

func (s *Session) retrieveDepth(
	ctx context.Context,
	dst *frame.Depth,
) error {
	if s.closed {
		return fmt.Errorf("the session is closed")
	}
	if dst.Width != s.info.Width || dst.Height != s.info.Height {
		return fmt.Errorf("unexpected buffer size %dx%d, expected %dx%d", dst.Width, dst.Height, s.info.Width, s.info.Height)
	}
	if s.depthMat == nil {
		s.depthMat = C.sl_mat_create_new(C.int(s.info.Width), C.int(s.info.Height), C.SL_MAT_TYPE_F32_C1, C.SL_MEM_CPU)
	}

	code := ErrorCode(C.sl_retrieve_measure(
		C.int(s.cameraID), s.depthMat, C.SL_MEASURE_DEPTH, C.SL_MEM_CPU,
		C.int(s.info.Width), C.int(s.info.Height),
	))
	if code != ErrorCodeSuccess {
		return fmt.Errorf("unable to retrieve the depth measure: %w", code)
	}

	ptr := unsafe.Pointer(C.sl_mat_get_ptr(s.depthMat, C.SL_MEM_CPU))
	step := int(C.sl_mat_get_step_bytes(s.depthMat, C.SL_MEM_CPU)) / 4
	src := unsafe.Slice((*float32)(ptr), step*dst.Height)
	for y := 0; y < dst.Height; y++ {
		copy(dst.Data[y*dst.Width:(y+1)*dst.Width], src[y*step:y*step+dst.Width])
	}
	logger.Tracef(ctx, "retrieved the depth measure")
	return nil
}

// Close releases the camera slot. Repeated calls are no-ops.
func (s *Session) Close() error {
	ctx := context.TODO()
	return xsync.DoR1(ctx, &s.Locker, func() error {
		if s.closed {
			return nil
		}
		s.closed = true
		if s.imageMat != nil {
			C.sl_mat_free(s.imageMat, C.SL_MEM_CPU)
			s.imageMat = nil
		}
		if s.depthMat != nil {
			C.sl_mat_free(s.depthMat, C.SL_MEM_CPU)
			s.depthMat = nil
		}
		C.sl_close_camera(C.int(s.cameraID))
		cameraIDs.Release(s.cameraID)
		return nil
	})
}
