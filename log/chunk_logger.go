package log

import (
	"sync"
)

// ChunkLogger receives every chunk a panel accepts.
type ChunkLogger interface {
	LogChunk(panel string, chunk string)
}

var (
	chunkLogger ChunkLogger
	loggerMu    sync.RWMutex
)

// SetChunkLogger sets the global chunk logger. nil disables it.
func SetChunkLogger(logger ChunkLogger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	chunkLogger = logger
}

// LogChunk forwards an accepted chunk to the chunk logger, if any.
func LogChunk(panel string, chunk string) {
	loggerMu.RLock()
	logger := chunkLogger
	loggerMu.RUnlock()

	if logger != nil {
		logger.LogChunk(panel, chunk)
	}
}
