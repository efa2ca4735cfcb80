// Package messages defines the tea.Msg types exchanged between the TUI
// host and its pages. Commands run in goroutines return these; pages apply
// them in Update.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// HistoryLoaded carries the chat transcript read from storage.
type HistoryLoaded struct {
	Messages []domain.ChatMessage
	Err      error
}

// ChatReplied is sent when the model answers a prompt.
type ChatReplied struct {
	Reply domain.ChatMessage
	Err   error
}

// HistoryCleared is sent after the chat history was deleted.
type HistoryCleared struct {
	Err error
}

// StatsLoaded carries the Home page counters.
type StatsLoaded struct {
	Messages  int
	Documents int
	Err       error
}

// DocumentsLoaded carries the files found in the input directories.
type DocumentsLoaded struct {
	Files []domain.DocumentFile
	Err   error
}

// DocumentProcessed carries the fields extracted from one file.
type DocumentProcessed struct {
	Name   string
	Fields []domain.Field
	Err    error
}

// SettingsLoaded carries the current settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved reports the outcome of saving settings.
type SettingsSaved struct {
	Err error
}

// LogsLoaded carries the tail of the selected log kind.
type LogsLoaded struct {
	Kind  domain.LogKind
	Lines []string
	Err   error
}

// LogsChanged is sent by the log watcher when a log file was written.
type LogsChanged struct {
	// Generation identifies the watcher; stale watchers are ignored.
	Generation int
}

// WatchStopped is sent when a log watcher ends, with the reason if any.
type WatchStopped struct {
	Generation int
	Err        error
}

// Status sets the status bar message.
type Status struct {
	Text    string
	IsError bool
}

// NavigateTo asks the host to select a page by name.
type NavigateTo struct {
	Page string
}
