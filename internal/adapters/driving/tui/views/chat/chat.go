// Package chat provides the chat page: a persisted conversation with the
// configured model.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/markdown"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/page"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// Page identity.
const (
	Name        = "Chat"
	Icon        = "💬"
	Description = "Ask questions about your documents"
)

// Namespace holds the chat session in the state store.
const Namespace = "chat_page"

// DefaultSession is the conversation the page resumes across runs.
const DefaultSession = "tui"

// State keys in Namespace.
const (
	KeyInitialized = "initialized"
	KeySession     = "session_id"
	KeyMessages    = "messages"
	KeyPending     = "pending"
)

// inputRows is the height taken by the prompt box and help line.
const inputRows = 5

// Page shows the transcript above a prompt input.
type Page struct {
	page.Base

	chat   driving.ChatService
	keymap *keymap.KeyMap
	input  *input.Field
	vp     viewport.Model

	// follow keeps the transcript scrolled to the newest message.
	follow bool
}

// New creates the Chat page.
func New(chat driving.ChatService) *Page {
	return &Page{
		Base:   page.NewBase(Name, Icon, Description),
		chat:   chat,
		keymap: keymap.DefaultKeyMap(),
		input: input.NewField(nil, "Message",
			input.WithPlaceholder("What would you like to know?"),
			input.WithCharLimit(4000),
		),
		vp:     viewport.New(80, 10),
		follow: true,
	}
}

// OnInit starts the session on first activation and loads its history.
func (p *Page) OnInit(ctx *page.Context) tea.Cmd {
	s := ctx.State.Scope(Namespace)
	if !s.GetBool(KeyInitialized, false) {
		s.Set(KeySession, DefaultSession)
		s.Set(KeyMessages, []domain.ChatMessage(nil))
		s.Set(KeyInitialized, true)
	}
	return p.loadHistory(ctx.Ctx, session(ctx))
}

// OnLoad focuses the prompt.
func (p *Page) OnLoad(*page.Context) tea.Cmd {
	p.follow = true
	return p.input.Focus()
}

// OnUnload blurs the prompt.
func (p *Page) OnUnload(*page.Context) {
	p.input.Blur()
}

func session(ctx *page.Context) string {
	return ctx.State.Scope(Namespace).GetString(KeySession, DefaultSession)
}

func history(ctx *page.Context) []domain.ChatMessage {
	msgs, _ := ctx.State.Get(Namespace, KeyMessages, nil).([]domain.ChatMessage)
	return msgs
}

func (p *Page) loadHistory(ctx context.Context, sessionID string) tea.Cmd {
	if p.chat == nil {
		return nil
	}
	chat := p.chat
	return func() tea.Msg {
		msgs, err := chat.History(ctx, sessionID)
		return messages.HistoryLoaded{Messages: msgs, Err: err}
	}
}

// Update handles prompt input and the results of chat commands.
func (p *Page) Update(ctx *page.Context, msg tea.Msg) tea.Cmd {
	s := ctx.State.Scope(Namespace)

	switch msg := msg.(type) {
	case messages.HistoryLoaded:
		if msg.Err != nil {
			return status(fmt.Sprintf("load history: %v", msg.Err), true)
		}
		s.Set(KeyMessages, msg.Messages)
		p.follow = true
		return nil

	case messages.ChatReplied:
		s.Set(KeyPending, false)
		msgs := history(ctx)
		if msg.Err != nil {
			// The turn was not recorded; hand the prompt back.
			if n := len(msgs); n > 0 && msgs[n-1].IsUser() {
				p.input.SetValue(msgs[n-1].Content)
				s.Set(KeyMessages, msgs[:n-1])
			}
			ctx.Log.WithError(msg.Err).Error("Chat request failed")
			return status(msg.Err.Error(), true)
		}
		s.Set(KeyMessages, append(msgs, msg.Reply))
		p.follow = true
		return nil

	case messages.HistoryCleared:
		if msg.Err != nil {
			return status(fmt.Sprintf("clear history: %v", msg.Err), true)
		}
		s.Set(KeyMessages, []domain.ChatMessage(nil))
		return status("Chat history cleared", false)

	case tea.KeyMsg:
		return p.handleKey(ctx, msg)
	}
	return nil
}

func (p *Page) handleKey(ctx *page.Context, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, p.keymap.ClearChat):
		return p.clear(ctx)
	case key.Matches(msg, p.keymap.Select):
		return p.send(ctx)
	case msg.Type == tea.KeyPgUp || msg.Type == tea.KeyPgDown:
		var cmd tea.Cmd
		p.vp, cmd = p.vp.Update(msg)
		p.follow = p.vp.AtBottom()
		return cmd
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

func (p *Page) send(ctx *page.Context) tea.Cmd {
	s := ctx.State.Scope(Namespace)
	prompt := p.input.TrimmedValue()
	if prompt == "" || s.GetBool(KeyPending, false) {
		return nil
	}
	if p.chat == nil {
		return status(domain.ErrLLMUnavailable.Error(), true)
	}

	sessionID := session(ctx)
	s.Set(KeyMessages, append(history(ctx), domain.ChatMessage{
		SessionID: sessionID,
		Role:      domain.RoleUser,
		Content:   prompt,
	}))
	s.Set(KeyPending, true)
	p.input.Reset()
	p.follow = true

	chat, c := p.chat, ctx.Ctx
	return func() tea.Msg {
		reply, err := chat.Send(c, sessionID, prompt)
		return messages.ChatReplied{Reply: reply, Err: err}
	}
}

func (p *Page) clear(ctx *page.Context) tea.Cmd {
	if p.chat == nil {
		return nil
	}
	chat, c, sessionID := p.chat, ctx.Ctx, session(ctx)
	return func() tea.Msg {
		return messages.HistoryCleared{Err: chat.Clear(c, sessionID)}
	}
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return messages.Status{Text: text, IsError: isErr}
	}
}

// Render draws the transcript and the prompt.
func (p *Page) Render(ctx *page.Context) (string, error) {
	st := ctx.Styles
	var b strings.Builder

	title := "Ask Your Documents"
	if p.chat != nil {
		title += st.Muted.Render(" · " + p.chat.ModelName())
	}
	b.WriteString(st.Subtitle.Render(title))
	b.WriteString("\n")

	p.vp.Width = ctx.Width
	p.vp.Height = max(ctx.Height-inputRows-4, 3)
	p.vp.SetContent(p.transcript(ctx))
	if p.follow {
		p.vp.GotoBottom()
	}
	b.WriteString(p.vp.View())
	b.WriteString("\n")

	p.input.SetWidth(ctx.Width - 4)
	b.WriteString(p.input.View())
	b.WriteString("\n")
	b.WriteString(st.Help.Render("[enter] send  [pgup/pgdn] scroll  [ctrl+l] clear history"))
	return b.String(), nil
}

func (p *Page) transcript(ctx *page.Context) string {
	st := ctx.Styles
	msgs := history(ctx)
	if len(msgs) == 0 {
		return st.Muted.Render("No messages yet. Type a question below.")
	}

	md := markdown.NewRenderer(st, ctx.Width-st.AssistantMessage.GetHorizontalFrameSize())
	parts := make([]string, 0, len(msgs)+1)
	for _, m := range msgs {
		switch m.Role {
		case domain.RoleUser:
			parts = append(parts, st.UserMessage.Render("You")+"\n"+m.Content)
		case domain.RoleAssistant:
			parts = append(parts, st.Title.Render("Assistant")+"\n"+st.AssistantMessage.Render(md.Render(m.Content)))
		}
	}
	if ctx.State.Scope(Namespace).GetBool(KeyPending, false) {
		parts = append(parts, st.Muted.Render("Thinking..."))
	}
	return strings.Join(parts, "\n\n")
}
