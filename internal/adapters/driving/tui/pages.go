package tui

import (
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/home"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/logs"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/settings"
)

// DefaultPages builds the built-in pages in sidebar order.
func DefaultPages(ports *Ports) ([]page.Page, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}
	return []page.Page{
		home.New(ports.Chat, ports.Documents),
		chat.New(ports.Chat),
		documents.New(ports.Documents),
		settings.New(ports.Settings),
		logs.New(ports.Logs),
	}, nil
}

// NewDefaultApp creates an App with the built-in pages, Home selected.
func NewDefaultApp(cfg Config, ports *Ports) (*App, error) {
	pages, err := DefaultPages(ports)
	if err != nil {
		return nil, err
	}
	app := NewApp(cfg)
	for _, p := range pages {
		if err := app.AddPage(p); err != nil {
			return nil, err
		}
	}
	if err := app.SelectPage(home.Name); err != nil {
		return nil, err
	}
	return app, nil
}
