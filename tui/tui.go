// Package tui shows playback in an interactive full-screen terminal UI.
//
// Frames are drawn in the alternate screen with one status row below them.
// The status row shows the most recent log line. Pressing q, esc or ctrl+c
// stops playback.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/asciiplay/geometry"
)

const quitHint = "q: quit"

// ErrClosed is returned when a frame is written after the UI has exited.
var ErrClosed = errors.New("tui closed")

// FrameMsg carries one rendered frame into the [Model].
type FrameMsg string

// LogMsg carries one log line into the [Model].
type LogMsg string

// logsClosedMsg signals that the log channel was closed.
type logsClosedMsg struct{}

// FrameArea returns the part of a terminal of the given size that is
// available for frames, leaving one row for the status line.
func FrameArea(terminal geometry.Dimensions) geometry.Dimensions {
	terminal.H = max(0, terminal.H-1)

	return terminal
}

// Model is the Bubble Tea model behind [Sink].
//
// Create instances with [NewModel].
type Model struct {
	cancel context.CancelFunc
	logs   <-chan string
	frame  string
	status string
	width  int
}

// NewModel creates a [Model]. cancel is called when the user quits. Lines
// received on logs are shown in the status row; logs may be nil.
func NewModel(cancel context.CancelFunc, logs <-chan string) *Model {
	return &Model{
		cancel: cancel,
		logs:   logs,
	}
}

// Init starts listening for log lines.
func (m *Model) Init() tea.Cmd {
	return m.waitForLog()
}

// Update handles frames, log lines, resizes and quit keys.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if m.cancel != nil {
				m.cancel()
			}

			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case FrameMsg:
		m.frame = string(msg)

	case LogMsg:
		m.status = string(msg)

		return m, m.waitForLog()

	case logsClosedMsg:
		m.logs = nil
	}

	return m, nil
}

// Render returns the screen content: the current frame followed by the
// status row.
func (m *Model) Render() string {
	status := quitHint
	if m.status != "" {
		status = m.status + "  " + quitHint
	}

	if m.width > 0 {
		status = truncate(status, m.width)
	}

	return m.frame + "\n" + status
}

// View renders the model in the alternate screen.
func (m *Model) View() tea.View {
	v := tea.NewView(m.Render())
	v.AltScreen = true

	return v
}

func (m *Model) waitForLog() tea.Cmd {
	if m.logs == nil {
		return nil
	}

	ch := m.logs

	return func() tea.Msg {
		line, ok := <-ch
		if !ok {
			return logsClosedMsg{}
		}

		return LogMsg(line)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	r := []rune(s)
	if len(r) <= n {
		return s
	}

	return strings.TrimRight(string(r[:n]), " ")
}

// Sink is a [go.jacobcolvin.com/asciiplay/display.Sink] that shows frames in
// a Bubble Tea program.
//
// Create instances with [New], then call [Sink.Start] before the first frame
// and [Sink.Close] after the last.
type Sink struct {
	prog *tea.Program
	done chan struct{}
	err  error
}

// New creates a [Sink]. cancel is called when the user quits; logs feeds the
// status row and may be nil.
func New(cancel context.CancelFunc, logs <-chan string, opts ...tea.ProgramOption) *Sink {
	return &Sink{
		prog: tea.NewProgram(NewModel(cancel, logs), opts...),
		done: make(chan struct{}),
	}
}

// Start runs the program in the background.
func (s *Sink) Start() {
	go func() {
		defer close(s.done)

		_, err := s.prog.Run()
		if err != nil {
			s.err = fmt.Errorf("running tui: %w", err)
		}
	}()
}

// WriteFrame hands text to the program. It blocks until the program has
// accepted the frame, so frames are shown in the order they were written.
func (s *Sink) WriteFrame(text string) error {
	select {
	case <-s.done:
		return ErrClosed
	default:
	}

	s.prog.Send(FrameMsg(text))

	return nil
}

// Close stops the program and waits for it to restore the terminal.
func (s *Sink) Close() error {
	s.prog.Quit()
	<-s.done

	return s.err
}
