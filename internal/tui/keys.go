package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Keep    key.Binding
	Pass    key.Binding
	Undo    key.Binding
	Kept    key.Binding
	Image   key.Binding
	Restart key.Binding
	Quit    key.Binding

	Up     key.Binding
	Down   key.Binding
	Search key.Binding
	Remove key.Binding
	Export key.Binding
	Clear  key.Binding
	Enter  key.Binding
	Close  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Keep:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "keep")),
		Pass:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pass")),
		Undo:    key.NewBinding(key.WithKeys("backspace", "z"), key.WithHelp("⌫/z", "undo")),
		Kept:    key.NewBinding(key.WithKeys("k"), key.WithHelp("k", "kept")),
		Image:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "image")),
		Restart: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "restart")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		Up:     key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:   key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Remove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "remove")),
		Export: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export csv")),
		Clear:  key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
	}
}

// ShortHelp implements help.KeyMap for the deck view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Keep, k.Pass, k.Undo, k.Kept, k.Image, k.Restart, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		k.ShortHelp(),
		{k.Up, k.Down, k.Search, k.Remove, k.Export, k.Clear, k.Close},
	}
}

// keptHelp lists the bindings shown in the kept modal footer.
type keptHelp struct{ keyMap }

func (k keptHelp) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Search, k.Remove, k.Export, k.Clear, k.Close}
}
