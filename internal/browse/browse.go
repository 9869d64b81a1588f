// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package browse

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/apex/log"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/staranto/whctlgo/internal/dataset"
	"github.com/staranto/whctlgo/internal/output"
	"github.com/staranto/whctlgo/internal/webhooks"
)

// ErrNotTerminal is returned by Run when stdin or stdout is not a terminal.
var ErrNotTerminal = errors.New("browse requires an interactive terminal")

// Source is the part of the store the browser reads from.
type Source interface {
	InitialPageWebhooks(ctx context.Context, version string) ([]webhooks.InitialWebhook, error)
	Webhook(ctx context.Context, version, category string) (*dataset.Category, bool, error)
}

type state int

const (
	stateLoading state = iota
	stateList
	stateDetail
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#00c8f0"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f"))
	footerStyle = lipgloss.NewStyle().Faint(true).Padding(0, 1)
)

// item is one category of the initial listing.
type item struct {
	name        string
	actionTypes []string
}

func (i item) Title() string { return i.name }

func (i item) Description() string {
	switch len(i.actionTypes) {
	case 0:
		return "no actions"
	case 1:
		return "1 action: " + i.actionTypes[0]
	default:
		return fmt.Sprintf("%d actions: %s", len(i.actionTypes), strings.Join(i.actionTypes, ", "))
	}
}

func (i item) FilterValue() string { return i.name }

type listingMsg struct {
	listing []webhooks.InitialWebhook
	err     error
}

type detailMsg struct {
	name    string
	content string
	err     error
}

// Model is the bubbletea model of the browser.
type Model struct {
	ctx     context.Context
	source  Source
	version string

	state    state
	list     list.Model
	viewport viewport.Model
	current  string
	err      error

	width, height int
}

// New returns a Model browsing version.
func New(ctx context.Context, source Source, version string) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "webhooks " + version
	l.Styles.Title = titleStyle

	return Model{
		ctx:      ctx,
		source:   source,
		version:  version,
		state:    stateLoading,
		list:     l,
		viewport: viewport.New(0, 0),
	}
}

// Init loads the listing.
func (m Model) Init() tea.Cmd {
	return m.loadListing()
}

func (m Model) loadListing() tea.Cmd {
	return func() tea.Msg {
		listing, err := m.source.InitialPageWebhooks(m.ctx, m.version)
		return listingMsg{listing: listing, err: err}
	}
}

func (m Model) loadDetail(name string) tea.Cmd {
	return func() tea.Msg {
		c, ok, err := m.source.Webhook(m.ctx, m.version, name)
		if err != nil {
			return detailMsg{name: name, err: err}
		}
		if !ok {
			return detailMsg{name: name, err: fmt.Errorf("category not found: %s", name)}
		}

		var buf bytes.Buffer
		if err := output.EmitDocument(&buf, c, output.FormatJSON); err != nil {
			return detailMsg{name: name, err: err}
		}
		return detailMsg{name: name, content: buf.String()}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, msg.Height)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-2, 0)
		return m, nil

	case listingMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, 0, len(msg.listing))
		for _, w := range msg.listing {
			items = append(items, item{name: w.Name, actionTypes: w.ActionTypes})
		}
		m.state = stateList
		return m, m.list.SetItems(items)

	case detailMsg:
		if msg.name != m.current {
			return m, nil
		}
		if msg.err != nil {
			log.WithError(msg.err).Debugf("failed to load %s", msg.name)
			m.viewport.SetContent(errorStyle.Render(msg.err.Error()))
		} else {
			m.viewport.SetContent(msg.content)
		}
		m.viewport.GotoTop()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}

		if m.state == stateDetail {
			switch msg.String() {
			case "esc", "backspace", "left", "h":
				m.state = stateList
				m.current = ""
				return m, nil
			case "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		if m.state == stateList && m.list.FilterState() != list.Filtering {
			switch msg.String() {
			case "enter", "right", "l":
				it, ok := m.list.SelectedItem().(item)
				if !ok {
					return m, nil
				}
				m.state = stateDetail
				m.current = it.name
				m.viewport.SetContent("loading " + it.name + "...")
				return m, m.loadDetail(it.name)
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	switch m.state {
	case stateLoading:
		return "loading webhooks " + m.version + "..."
	case stateDetail:
		header := headerStyle.Render(m.current + " (" + m.version + ")")
		footer := footerStyle.Render(fmt.Sprintf("%3.f%%  esc back  q quit", m.viewport.ScrollPercent()*100))
		return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View(), footer)
	default:
		return m.list.View()
	}
}

// Err returns the error that ended the program, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the browser on the terminal and blocks until the user quits.
func Run(ctx context.Context, source Source, version string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return ErrNotTerminal
	}

	final, err := tea.NewProgram(New(ctx, source, version), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("failed to run browser: %w", err)
	}
	if m, ok := final.(Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
