package app

import (
	"dualstream/ui"
)

// ChunkLoggerAdapter adapts the LogPane to the ChunkLogger interface
type ChunkLoggerAdapter struct {
	logPane *ui.LogPane
}

// NewChunkLoggerAdapter creates a new chunk logger adapter
func NewChunkLoggerAdapter(logPane *ui.LogPane) *ChunkLoggerAdapter {
	return &ChunkLoggerAdapter{
		logPane: logPane,
	}
}

// LogChunk implements the ChunkLogger interface
func (a *ChunkLoggerAdapter) LogChunk(panel, chunk string) {
	if a.logPane != nil {
		a.logPane.AddLog(panel, chunk)
	}
}
