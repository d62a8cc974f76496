package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ListManager is a small list with an input row and add/remove buttons, used
// for a medication's scheduled dose times.
type ListManager struct {
	list        *widget.List
	entry       *widget.Entry
	data        []string
	selectedIdx int

	normalize  func(string) (string, error)
	renderItem func(int) string
	onChange   func()
}

// ListManagerConfig configures the list manager.
type ListManagerConfig struct {
	RenderItem func(int) string             // renders a data item for display
	Normalize  func(string) (string, error) // validates/canonicalizes input before adding
	OnChange   func()                       // called whenever the list changes
}

// NewListManager creates the component and its container. entry is the input
// read by the add button.
func NewListManager(data []string, entry *widget.Entry, config ListManagerConfig) (*ListManager, *fyne.Container) {
	lm := &ListManager{
		data:        data,
		entry:       entry,
		selectedIdx: -1,
		normalize:   config.Normalize,
		renderItem:  config.RenderItem,
		onChange:    config.OnChange,
	}

	lm.list = widget.NewList(
		func() int {
			return len(lm.data)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("template")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			if i < len(lm.data) {
				text := lm.data[i]
				if lm.renderItem != nil {
					text = lm.renderItem(i)
				}
				label.SetText(text)
			}
		})

	lm.list.OnSelected = func(id widget.ListItemID) {
		lm.selectedIdx = id
	}

	plusButton := widget.NewButton("", func() {
		value := lm.entry.Text
		if lm.normalize != nil {
			normalized, err := lm.normalize(value)
			if err != nil {
				lm.entry.SetValidationError(err)
				return
			}
			value = normalized
		}
		// Values are a set; silently ignore duplicates.
		for _, existing := range lm.data {
			if existing == value {
				return
			}
		}
		lm.data = append(lm.data, value)
		lm.entry.SetText("")
		lm.list.Refresh()
		if lm.onChange != nil {
			lm.onChange()
		}
	})
	plusButton.Icon = theme.ContentAddIcon()

	minusButton := widget.NewButton("", func() {
		lm.RemoveSelected()
	})
	minusButton.Icon = theme.ContentRemoveIcon()

	addControls := container.NewBorder(nil, nil, nil,
		container.NewHBox(plusButton, minusButton),
		lm.entry)

	listScroll := container.NewScroll(lm.list)
	listScroll.SetMinSize(fyne.NewSize(0, 120))

	listWithBorder := container.NewBorder(
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		widget.NewSeparator(),
		listScroll,
	)

	return lm, container.NewVBox(listWithBorder, addControls)
}

// GetData returns the current data
func (lm *ListManager) GetData() []string {
	return lm.data
}

// SetData updates the data and refreshes
func (lm *ListManager) SetData(data []string) {
	lm.data = data
	lm.list.Refresh()
}

// RemoveSelected removes the currently selected item
func (lm *ListManager) RemoveSelected() {
	if lm.selectedIdx >= 0 && lm.selectedIdx < len(lm.data) {
		lm.data = append(lm.data[:lm.selectedIdx], lm.data[lm.selectedIdx+1:]...)
		lm.list.UnselectAll()
		lm.selectedIdx = -1
		lm.list.Refresh()
		if lm.onChange != nil {
			lm.onChange()
		}
	}
}
