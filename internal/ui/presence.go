package ui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"CollabCanvas/internal/presence"
)

// presencePanel lists the connected collaborators in join order.
type presencePanel struct {
	mu    sync.Mutex
	users []presence.User
	list  *widget.List
	box   fyne.CanvasObject
}

func newPresencePanel(roster *presence.Roster) *presencePanel {
	p := &presencePanel{}
	p.list = widget.NewList(
		func() int {
			p.mu.Lock()
			defer p.mu.Unlock()
			return len(p.users)
		},
		func() fyne.CanvasObject {
			dot := canvas.NewCircle(color.NRGBA{G: 200, A: 255})
			return container.NewHBox(
				container.New(layout.NewGridWrapLayout(fyne.NewSize(10, 10)), dot),
				widget.NewLabel(""))
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			p.mu.Lock()
			defer p.mu.Unlock()
			if id >= len(p.users) {
				return
			}
			row := obj.(*fyne.Container)
			row.Objects[1].(*widget.Label).SetText(p.users[id].Name)
		},
	)
	p.box = container.NewBorder(widget.NewLabel("Active Users"), nil, nil, nil, p.list)

	roster.OnChange = func(users []presence.User) {
		p.mu.Lock()
		p.users = users
		p.mu.Unlock()
		fyne.Do(p.list.Refresh)
	}
	return p
}
