package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Digital-Shane/reelshelf/internal/storage"
	"github.com/dustin/go-humanize"
)

type UndoResult struct {
	Operation OperationLog
	Success   bool
	Error     error
}

// UndoOperation restores the record touched by op to its Before value.
// The current value must still equal op.After, otherwise a later change
// would be lost and the undo is refused.
func UndoOperation(ctx context.Context, store storage.Store, op OperationLog) UndoResult {
	result := UndoResult{Operation: op}

	if op.Key == "" || op.Kind == "" {
		result.Error = fmt.Errorf("cannot undo %s: record key missing", op.Type)
		return result
	}

	current, err := store.Get(ctx, op.Kind, op.Key)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		current = nil
	case err != nil:
		result.Error = fmt.Errorf("failed to read %s %s: %w", op.Kind, op.Key, err)
		return result
	}

	if !bytes.Equal(compact(current), compact(op.After)) {
		result.Error = fmt.Errorf("cannot undo %s of %s %s: record changed since", op.Type, op.Kind, op.Key)
		return result
	}

	if len(op.Before) == 0 {
		if current == nil {
			result.Success = true
			return result
		}
		if err := store.Delete(ctx, op.Kind, op.Key); err != nil && !errors.Is(err, storage.ErrNotFound) {
			result.Error = fmt.Errorf("failed to remove %s %s: %w", op.Kind, op.Key, err)
			return result
		}
		result.Success = true
		return result
	}

	if err := store.Set(ctx, op.Kind, op.Key, compact(op.Before)); err != nil {
		result.Error = fmt.Errorf("failed to restore %s %s: %w", op.Kind, op.Key, err)
		return result
	}
	result.Success = true
	return result
}

// UndoSession reverts the successful operations of session, newest first.
func UndoSession(ctx context.Context, store storage.Store, session *LogSession) (successful int, failed int, errs []error) {
	for i := len(session.Operations) - 1; i >= 0; i-- {
		op := session.Operations[i]
		if !op.Success {
			continue
		}

		result := UndoOperation(ctx, store, op)
		if result.Success {
			successful++
		} else {
			failed++
			if result.Error != nil {
				errs = append(errs, result.Error)
			}
		}
	}
	return successful, failed, errs
}

// FindLatestSession returns the most recent session and its file.
func FindLatestSession() (*LogSession, string, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, "", err
	}
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		return session, file, nil
	}
	return nil, "", fmt.Errorf("no sessions found")
}

// DeleteSession removes a session file, typically after it was undone.
func DeleteSession(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session %s: %w", path, err)
	}
	return nil
}

type SessionSummary struct {
	Session      *LogSession
	FilePath     string
	RelativeTime string
	Icon         string
}

func GetSessionSummaries() ([]SessionSummary, error) {
	files, err := sessionFiles()
	if err != nil {
		return nil, err
	}

	summaries := make([]SessionSummary, 0, len(files))
	for _, file := range files {
		session, err := ReadSession(file)
		if err != nil {
			continue
		}
		summaries = append(summaries, SessionSummary{
			Session:      session,
			FilePath:     file,
			RelativeTime: humanize.Time(session.Metadata.Timestamp),
			Icon:         getCommandIcon(session.Metadata.CommandArgs),
		})
	}
	return summaries, nil
}

func getCommandIcon(args []string) string {
	if len(args) == 0 {
		return "❓"
	}

	switch args[0] {
	case "add", "quick-add", "range":
		return "➕"
	case "delete", "clear":
		return "🗑"
	case "watch":
		return "▶"
	case "bookmark", "unbookmark":
		return "🔖"
	case "rate":
		return "⭐"
	case "import":
		return "📥"
	default:
		return "📝"
	}
}

// compact normalizes JSON so formatting differences do not defeat the
// change check.
func compact(data []byte) []byte {
	if len(data) == 0 {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return data
	}
	return buf.Bytes()
}
