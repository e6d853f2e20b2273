// Package ui is the Fyne front end: the board widget, toolbar, text editor
// dialog, presence panel and status strip, wired to the gesture machine and
// the sync coordinator.
package ui

import (
	"context"
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"

	"CollabCanvas/internal/api"
	"CollabCanvas/internal/export"
	"CollabCanvas/internal/gesture"
	"CollabCanvas/internal/presence"
	"CollabCanvas/internal/realtime"
	"CollabCanvas/internal/render"
	"CollabCanvas/internal/state"
)

// Config is everything the canvas session needs from the CLI.
type Config struct {
	ServerURL string
	Token     string
	CanvasID  string
	Title     string
}

const (
	boardWidth  = 1280
	boardHeight = 800
)

// Run opens the canvas window and blocks until it closes.
func Run(cfg Config) error {
	renderer, err := render.NewRenderer(boardWidth, boardHeight)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}

	a := app.New()
	title := cfg.Title
	if title == "" {
		title = "CollabCanvas"
	}
	win := a.NewWindow(title)
	win.Resize(fyne.NewSize(boardWidth+220, boardHeight+120))

	elements := state.NewCanvas()
	roster := presence.NewRoster()
	machine := gesture.NewMachine()
	board := NewBoard(elements, renderer, machine)

	client := api.NewClient(cfg.ServerURL+"/api", cfg.Token)
	coord := realtime.NewCoordinator(realtime.Config{
		CanvasID: cfg.CanvasID,
		Canvas:   elements,
		Roster:   roster,
		Channel:  realtime.NewChannel(cfg.ServerURL, cfg.CanvasID, nil),
		Fetch:    client.Snapshot,
	})

	machine.OnCommit = coord.CommitElement
	machine.OnPatch = coord.CommitPatch
	machine.OnPreview = coord.PreviewPatch
	machine.OnTextPrompt = func(existing *state.Element) {
		showTextEditor(win, machine, existing)
	}

	banner := newErrorBanner()
	status := newStatusBar()
	coord.OnRedraw = board.RefreshFromState
	coord.OnError = banner.Show
	coord.OnConnection = status.SetConnected

	toolbar := NewToolbar(machine,
		func() {
			dialog.ShowConfirm("Clear canvas",
				"Remove every element for all collaborators?",
				func(ok bool) {
					if ok {
						coord.ClearAll()
					}
				}, win)
		},
		func() {
			dialog.ShowFileSave(func(writer fyne.URIWriteCloser, err error) {
				if err != nil || writer == nil {
					return
				}
				defer writer.Close()
				if err := export.Write(writer, elements); err != nil {
					log.Printf("[ui] export: %v", err)
					banner.Show("Failed to export PDF")
				}
			}, win)
		},
	)

	panel := newPresencePanel(roster)

	win.SetContent(container.NewBorder(
		container.NewVBox(toolbar, banner.box),
		status.box,
		nil,
		panel.box,
		board,
	))

	coord.Join(context.Background())
	win.SetOnClosed(coord.Close)
	win.ShowAndRun()
	return nil
}
