// Package tui provides the interactive terminal host for docchat: a
// sidebar of pages, the page lifecycle, and shared session state.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"fmt"

	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces used by the built-in pages.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Chat answers prompts and keeps the transcript.
	Chat driving.ChatService

	// Documents lists and processes input files.
	Documents driving.DocumentService

	// Settings manages user-editable settings.
	Settings driving.SettingsService

	// Logs reads the timestamped log files.
	Logs driving.LogService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	chat driving.ChatService,
	documents driving.DocumentService,
	settings driving.SettingsService,
	logs driving.LogService,
) *Ports {
	return &Ports{
		Chat:      chat,
		Documents: documents,
		Settings:  settings,
		Logs:      logs,
	}
}

// Validate ensures all ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	var missing error
	switch {
	case p.Chat == nil:
		missing = ErrMissingChatService
	case p.Documents == nil:
		missing = ErrMissingDocumentService
	case p.Settings == nil:
		missing = ErrMissingSettingsService
	case p.Logs == nil:
		missing = ErrMissingLogService
	default:
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidPorts, missing)
}
