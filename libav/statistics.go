package libav

import (
	"sync/atomic"
)

type VideoWriterStatistics struct {
	FramesWrote  uint64
	PacketsWrote uint64
	BytesWrote   uint64
}

type videoWriterStatistics struct {
	FramesWrote  atomic.Uint64
	PacketsWrote atomic.Uint64
	BytesWrote   atomic.Uint64
}

func (stats *videoWriterStatistics) Convert() VideoWriterStatistics {
	return VideoWriterStatistics{
		FramesWrote:  stats.FramesWrote.Load(),
		PacketsWrote: stats.PacketsWrote.Load(),
		BytesWrote:   stats.BytesWrote.Load(),
	}
}
