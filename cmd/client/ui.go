package main

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"

	"github.com/hiraku/frame-chat/internal/client"
)

// ChatUI is a two-pane terminal UI: a scrolling messages view and an
// input line. Enter sends, Ctrl-C quits.
type ChatUI struct {
	gui       *gocui.Gui
	client    *client.Client
	msgView   string
	inputView string
	status    string
}

// NewChatUI creates the UI for an already-connected client.
func NewChatUI(c *client.Client, serverAddr, nickname string) (*ChatUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	ui := &ChatUI{
		gui:       g,
		client:    c,
		msgView:   "messages",
		inputView: "input",
		status:    fmt.Sprintf("%s@%s", nickname, serverAddr),
	}

	g.SetManagerFunc(ui.layout)
	return ui, nil
}

func (ui *ChatUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	if v, err := g.SetView(ui.msgView, 0, 0, maxX-1, maxY-4); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = fmt.Sprintf("Messages (%s)", ui.status)
		v.Wrap = true
		v.Autoscroll = true
	}

	if v, err := g.SetView(ui.inputView, 0, maxY-3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Input"
		v.Editable = true
		v.Wrap = true

		if _, err := g.SetCurrentView(ui.inputView); err != nil {
			return err
		}
	}

	return nil
}

func (ui *ChatUI) keybindings() error {
	if err := ui.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone,
		func(_ *gocui.Gui, _ *gocui.View) error {
			return gocui.ErrQuit
		}); err != nil {
		return err
	}

	return ui.gui.SetKeybinding(ui.inputView, gocui.KeyEnter, gocui.ModNone, ui.handleInput)
}

func (ui *ChatUI) handleInput(_ *gocui.Gui, v *gocui.View) error {
	input := strings.TrimSpace(v.Buffer())
	v.Clear()
	v.SetCursor(0, 0)
	if input == "" {
		return nil
	}
	if input == "/quit" {
		return gocui.ErrQuit
	}

	if err := ui.client.Send(input); err != nil {
		ui.appendLine(fmt.Sprintf("! send failed: %v", err))
		return nil
	}
	// The room does not echo to the sender; show our own line locally.
	ui.appendLine("you say: " + input)
	return nil
}

func (ui *ChatUI) appendLine(line string) {
	ui.gui.Update(func(g *gocui.Gui) error {
		v, err := g.View(ui.msgView)
		if err != nil {
			return err
		}
		fmt.Fprintln(v, line)
		return nil
	})
}

// Run pumps inbound messages into the messages view and blocks in the
// gocui main loop until quit.
func (ui *ChatUI) Run() error {
	if err := ui.keybindings(); err != nil {
		return err
	}

	go func() {
		for msg := range ui.client.Messages() {
			ui.appendLine(msg)
		}
		ui.appendLine("! disconnected from server")
	}()

	if err := ui.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Close releases the terminal.
func (ui *ChatUI) Close() {
	ui.gui.Close()
}
