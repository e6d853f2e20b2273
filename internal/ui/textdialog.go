package ui

import (
	"strconv"

	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"fyne.io/fyne/v2"

	"CollabCanvas/internal/gesture"
	"CollabCanvas/internal/state"
)

var fontOptions = []string{
	"Arial", "Times New Roman", "Courier New", "Georgia", "Verdana", "Helvetica",
}

var sizeOptions = []int{8, 10, 12, 14, 16, 18, 20, 24, 28, 32, 36, 42, 48, 64, 72}

var textColorOrder = []string{"Black", "Red", "Green", "Blue", "Purple", "Orange"}

var textColors = map[string]string{
	"Black":  "#000000",
	"Red":    "#FF0000",
	"Green":  "#00AA00",
	"Blue":   "#0000FF",
	"Purple": "#800080",
	"Orange": "#FFA500",
}

// showTextEditor opens the text dialog and resolves the machine's suspended
// text interaction with the result. existing pre-fills the fields when a
// committed text element is being edited.
func showTextEditor(win fyne.Window, m *gesture.Machine, existing *state.Element) {
	entry := widget.NewMultiLineEntry()
	entry.SetPlaceHolder("Enter your text here...")

	font := widget.NewSelect(fontOptions, nil)
	font.SetSelected("Arial")

	sizes := make([]string, len(sizeOptions))
	for i, s := range sizeOptions {
		sizes[i] = strconv.Itoa(s)
	}
	size := widget.NewSelect(sizes, nil)
	size.SetSelected("16")

	bold := widget.NewCheck("Bold", nil)
	italic := widget.NewCheck("Italic", nil)
	underline := widget.NewCheck("Underline", nil)

	colorSel := widget.NewSelect(textColorOrder, nil)
	colorSel.SetSelected("Black")

	if existing != nil {
		entry.SetText(existing.Text)
		if existing.Font != "" {
			font.SetSelected(existing.Font)
		}
		if existing.FontSize > 0 {
			size.SetSelected(strconv.Itoa(int(existing.FontSize)))
		}
		bold.SetChecked(existing.Bold)
		italic.SetChecked(existing.Italic)
		underline.SetChecked(existing.Underline)
		for name, hex := range textColors {
			if hex == existing.Color {
				colorSel.SetSelected(name)
			}
		}
	}

	form := container.NewVBox(
		entry,
		container.NewGridWithColumns(2,
			widget.NewLabel("Font"), font,
			widget.NewLabel("Size"), size,
			widget.NewLabel("Color"), colorSel,
		),
		container.NewHBox(bold, italic, underline),
	)

	dialog.ShowCustomConfirm("Text Editor", "Save", "Cancel", form, func(save bool) {
		if !save {
			m.CancelText()
			return
		}
		fontSize, err := strconv.ParseFloat(size.Selected, 64)
		if err != nil {
			fontSize = 16
		}
		m.ResolveText(entry.Text, state.Style{
			Font:      font.Selected,
			FontSize:  fontSize,
			Bold:      bold.Checked,
			Italic:    italic.Checked,
			Underline: underline.Checked,
			Color:     textColors[colorSel.Selected],
		})
	}, win)
}
