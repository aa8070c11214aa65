package tools

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/poiesic/switchboard/core"
)

// Team data messages.
const (
	MsgTeamFileMissing = "Employee data file is missing."
	MsgTeamParseFailed = "Failed to parse employee data."
	MsgTeamLoadFailed  = "An unexpected issue occurred while loading employee data."
)

// FounderInfo serves the team data file. The file is read on every call so
// edits are picked up without a restart.
type FounderInfo struct {
	path   string
	logger *slog.Logger
}

// NewFounderInfo creates the team data tool reading path.
func NewFounderInfo(path string) (*FounderInfo, error) {
	if path == "" {
		return nil, ErrPathRequired
	}
	return &FounderInfo{
		path:   path,
		logger: slog.Default().With("component", "tool", "tool", "founder-info"),
	}, nil
}

// Invoke returns the file's JSON document unchanged, or an error record.
func (f *FounderInfo) Invoke(_ context.Context, _ string) (any, error) {
	data, err := os.ReadFile(f.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		f.logger.Error("team data file not found", "path", f.path)
		return core.ErrorNotice{Error: MsgTeamFileMissing}, nil
	case err != nil:
		f.logger.Error("error reading team data", "path", f.path, "err", err)
		return core.ErrorNotice{Error: MsgTeamLoadFailed}, nil
	}

	if !json.Valid(data) {
		f.logger.Error("team data is not valid JSON", "path", f.path)
		return core.ErrorNotice{Error: MsgTeamParseFailed}, nil
	}
	f.logger.Debug("loaded team data", "path", f.path, "bytes", len(data))
	return json.RawMessage(data), nil
}
