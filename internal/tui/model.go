// Package tui is the terminal frontend: one session, one screen at a time.
package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/bowerhall/regen/internal/app"
	"github.com/bowerhall/regen/internal/assistant"
	"github.com/bowerhall/regen/internal/logger"
	"github.com/bowerhall/regen/internal/scan"
	"github.com/bowerhall/regen/internal/session"
)

type screen int

const (
	screenHome screen = iota
	screenChat
	screenScan
	screenGuide
	screenRewards
	screenSchedule
	screenMarket
	screenAddress
	screenProof
	screenSupport
)

var menu = []struct {
	title  string
	screen screen
}{
	{"Chat assistant", screenChat},
	{"Scan waste", screenScan},
	{"Segregation guide", screenGuide},
	{"Rewards", screenRewards},
	{"Pickup schedule", screenSchedule},
	{"Marketplace", screenMarket},
	{"Register address", screenAddress},
	{"Composting proof", screenProof},
	{"Support", screenSupport},
}

type (
	chatReplyMsg struct {
		reply string
		err   error
	}
	scanDoneMsg struct {
		state scan.State
	}
)

type Model struct {
	ctx  context.Context
	app  *app.App
	sess *session.Session

	screen   screen
	cursor   int
	status   string
	loading  bool
	holder   *scan.Holder
	maxBytes int64

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	renderer *glamour.TermRenderer

	width  int
	height int
}

func New(ctx context.Context, a *app.App, sess *session.Session, maxBytes int64) Model {
	ti := textinput.New()
	ti.CharLimit = 500
	ti.Width = 70

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(72),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable", "error", err)
	}

	return Model{
		ctx:      ctx,
		app:      a,
		sess:     sess,
		holder:   &scan.Holder{},
		maxBytes: maxBytes,
		input:    ti,
		viewport: viewport.New(76, 16),
		spinner:  sp,
		renderer: renderer,
		width:    80,
		height:   24,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Close releases any capture source still held.
func (m Model) Close() {
	if err := m.holder.Release(); err != nil {
		logger.Warn("capture source close failed", "error", err)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.Close()
			return m, tea.Quit
		}

		if m.screen == screenHome {
			return m.updateHome(msg)
		}

		switch msg.Type {
		case tea.KeyEsc:
			return m.leave(), nil
		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			return m.submit()
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

		if !m.loading {
			m.input, tiCmd = m.input.Update(msg)
			if m.screen == screenMarket {
				m.refresh()
			}
		}
		return m, tiCmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-10, 3)
		m.input.Width = msg.Width - 8

		if m.renderer != nil {
			m.renderer, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
		}
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var spCmd tea.Cmd
		m.spinner, spCmd = m.spinner.Update(msg)
		m.refresh()
		return m, spCmd

	case chatReplyMsg:
		m.loading = false
		switch {
		case errors.Is(msg.err, assistant.ErrBusy):
			m.status = app.BusyMessage
		case msg.err != nil:
			m.status = msg.err.Error()
		}
		m.refresh()
		return m, nil

	case scanDoneMsg:
		m.loading = false
		m.status = ""
		m.refresh()
		return m, nil
	}

	return m, nil
}

func (m Model) updateHome(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		m.Close()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(menu)-1 {
			m.cursor++
		}
	case "enter":
		return m.enter(menu[m.cursor].screen)
	}
	return m, nil
}

func (m Model) enter(s screen) (tea.Model, tea.Cmd) {
	m.screen = s
	m.status = ""
	m.input.Reset()
	m.input.Placeholder = placeholders[s]
	m.refresh()
	cmd := m.input.Focus()
	return m, cmd
}

// leave returns to the home screen. A capture source is released on the way out.
func (m Model) leave() Model {
	if m.screen == screenScan && !m.loading {
		if err := m.holder.Release(); err != nil {
			logger.Warn("capture source close failed", "error", err)
		}
	}
	m.screen = screenHome
	m.status = ""
	m.input.Blur()
	return m
}

var placeholders = map[screen]string{
	screenChat:     "Ask about recycling, composting, or disposal...",
	screenScan:     "Path to a photo of the waste item",
	screenRewards:  "Reward number or name to redeem",
	screenMarket:   "Search products",
	screenAddress:  "House no | Address",
	screenProof:    "Path to a photo of your compost",
	screenSupport:  "Write your feedback",
	screenGuide:    "",
	screenSchedule: "",
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.input.Value()

	switch m.screen {
	case screenChat:
		if strings.TrimSpace(value) == "" {
			return m, nil
		}
		m.input.Reset()
		m.loading = true
		m.status = ""
		m.refresh()
		return m, tea.Batch(m.spinner.Tick, m.askCmd(value))

	case screenScan:
		return m.submitScan(strings.TrimSpace(value))

	case screenRewards:
		m.status = m.app.Redeem(m.sess, value)
		m.input.Reset()
	case screenAddress:
		m.status = m.app.Address(m.sess, value)
		if m.status != app.AddressUsage {
			m.input.Reset()
		}
	case screenSupport:
		m.status = m.app.Support(value)
		if m.status != app.SupportUsage {
			m.input.Reset()
		}
	case screenProof:
		m.status = m.submitProof(strings.TrimSpace(value))
		m.input.Reset()
	}

	m.refresh()
	return m, nil
}

// submitScan opens a new source for a typed path, or analyzes the held
// source when the path is empty.
func (m Model) submitScan(path string) (tea.Model, tea.Cmd) {
	if path != "" {
		src, err := scan.OpenFile(path, m.maxBytes)
		if err != nil {
			m.status = "Couldn't open that file: " + err.Error()
			return m, nil
		}
		if err := m.holder.Replace(src); err != nil {
			logger.Warn("capture source close failed", "error", err)
		}
		m.input.Reset()
		m.status = "Selected " + path + ". Press Enter to analyze, or type another path to retake."
		return m, nil
	}

	src := m.holder.Take()
	if src == nil {
		m.status = app.ScanIntro
		return m, nil
	}

	m.loading = true
	m.status = ""
	m.sess.SetScan(scan.State{Loading: true})
	m.refresh()
	return m, tea.Batch(m.spinner.Tick, m.scanCmd(src))
}

func (m Model) submitProof(path string) string {
	if path == "" {
		return app.ProofIntro
	}

	f, err := scan.OpenFile(path, m.maxBytes)
	if err != nil {
		return "Couldn't open that file: " + err.Error()
	}
	defer f.Close()

	img, err := f.Capture(m.ctx)
	if err != nil {
		return "Couldn't read that file: " + err.Error()
	}

	return m.app.Proof(img)
}

func (m Model) askCmd(text string) tea.Cmd {
	ctx, a, sess := m.ctx, m.app, m.sess
	return func() tea.Msg {
		reply, err := a.Chat(ctx, sess, text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m Model) scanCmd(src scan.Source) tea.Cmd {
	ctx, a, sess := m.ctx, m.app, m.sess
	return func() tea.Msg {
		return scanDoneMsg{state: a.ScanSource(ctx, sess, src)}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(m.content())
	if m.screen == screenChat {
		m.viewport.GotoBottom()
	}
}

func (m Model) markdown(text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimSpace(out)
}
