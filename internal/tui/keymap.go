package tui

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"charm.land/bubbles/v2/key"
	"github.com/evanschultz/kanboard/internal/app"
)

// keyMap holds Normal-mode bindings.
type keyMap struct {
	moveLeft       key.Binding
	moveRight      key.Binding
	moveUp         key.Binding
	moveDown       key.Binding
	addHere        key.Binding
	addBelow       key.Binding
	addTop         key.Binding
	addBottom      key.Binding
	editCard       key.Binding
	deleteCard     key.Binding
	cardUp         key.Binding
	cardDown       key.Binding
	cardPrevColumn key.Binding
	cardNextColumn key.Binding
	toggleDone     key.Binding
	raisePriority  key.Binding
	lowerPriority  key.Binding
	copyTitle      key.Binding
	addColumn      key.Binding
	renameColumn   key.Binding
	removeColumn   key.Binding
	write          key.Binding
	save           key.Binding
	toggleHelp     key.Binding
	quit           key.Binding
}

// KeyConfig overrides selected bindings. Blank fields keep defaults.
type KeyConfig struct {
	Help       string
	Write      string
	Save       string
	CopyTitle  string
	ToggleDone string
	Quit       string
}

// newKeyMap constructs the default bindings.
func newKeyMap() keyMap {
	return keyMap{
		moveLeft:       key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "column left")),
		moveRight:      key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "column right")),
		moveUp:         key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "card up")),
		moveDown:       key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "card down")),
		addHere:        key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert here")),
		addBelow:       key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "insert below")),
		addTop:         key.NewBinding(key.WithKeys("I", "shift+i"), key.WithHelp("I", "insert at top")),
		addBottom:      key.NewBinding(key.WithKeys("A", "shift+a"), key.WithHelp("A", "insert at bottom")),
		editCard:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e/enter", "edit card")),
		deleteCard:     key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete card")),
		cardUp:         key.NewBinding(key.WithKeys("ctrl+k", "ctrl+up"), key.WithHelp("ctrl+k", "move card up")),
		cardDown:       key.NewBinding(key.WithKeys("ctrl+j", "ctrl+down"), key.WithHelp("ctrl+j", "move card down")),
		cardPrevColumn: key.NewBinding(key.WithKeys("H", "shift+h"), key.WithHelp("H", "card to prev column")),
		cardNextColumn: key.NewBinding(key.WithKeys("L", "shift+l"), key.WithHelp("L", "card to next column")),
		toggleDone:     key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle done")),
		raisePriority:  key.NewBinding(key.WithKeys("K", "shift+k"), key.WithHelp("K", "raise priority")),
		lowerPriority:  key.NewBinding(key.WithKeys("J", "shift+j"), key.WithHelp("J", "lower priority")),
		copyTitle:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy title")),
		addColumn:      key.NewBinding(key.WithKeys("C", "shift+c"), key.WithHelp("C", "add column")),
		renameColumn:   key.NewBinding(key.WithKeys("R", "shift+r"), key.WithHelp("R", "rename column")),
		removeColumn:   key.NewBinding(key.WithKeys("X", "shift+x"), key.WithHelp("X", "remove column")),
		write:          key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "write")),
		save:           key.NewBinding(key.WithKeys("W", "shift+w"), key.WithHelp("W", "save as")),
		toggleHelp:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// applyConfig applies configured overrides. ctrl+c always quits.
func (k *keyMap) applyConfig(cfg KeyConfig) {
	configureBinding(&k.toggleHelp, cfg.Help, "?", "help")
	configureBinding(&k.write, cfg.Write, "w", "write")
	configureBinding(&k.save, cfg.Save, "W", "save as")
	configureBinding(&k.copyTitle, cfg.CopyTitle, "y", "copy title")
	configureBinding(&k.toggleDone, cfg.ToggleDone, "space", "toggle done")
	configureBinding(&k.quit, cfg.Quit, "q", "quit")
	k.quit.SetKeys(append(k.quit.Keys(), "ctrl+c")...)
}

// configureBinding replaces a binding's keys with the parsed override.
func configureBinding(b *key.Binding, raw, fallback, desc string) {
	keys, helpKey := parseBindingKeys(raw, fallback)
	b.SetKeys(keys...)
	b.SetHelp(helpKey, desc)
}

// parseBindingKeys turns a configured key into matcher keys and a help label.
func parseBindingKeys(raw, fallback string) ([]string, string) {
	value := strings.TrimSpace(raw)
	if raw == " " {
		value = " "
	}
	if value == "" {
		value = strings.TrimSpace(fallback)
	}
	if value == " " || strings.EqualFold(value, "space") {
		return []string{" ", "space"}, "space"
	}
	if utf8.RuneCountInString(value) == 1 {
		r, _ := utf8.DecodeRuneInString(value)
		if unicode.IsUpper(r) {
			return []string{value, "shift+" + string(unicode.ToLower(r))}, value
		}
		return []string{value}, value
	}
	return []string{strings.ToLower(value)}, value
}

// normalEvent maps a Normal-mode key string onto an event kind.
func (k keyMap) normalEvent(matches func(key.Binding) bool) (app.EventKind, bool) {
	pairs := []struct {
		binding key.Binding
		kind    app.EventKind
	}{
		{k.quit, app.EventQuit},
		{k.toggleHelp, app.EventHelp},
		{k.write, app.EventWrite},
		{k.save, app.EventSave},
		{k.copyTitle, app.EventCopyTitle},
		{k.toggleDone, app.EventToggleDone},
		{k.cardUp, app.EventCardUp},
		{k.cardDown, app.EventCardDown},
		{k.cardPrevColumn, app.EventCardPrevColumn},
		{k.cardNextColumn, app.EventCardNextColumn},
		{k.raisePriority, app.EventRaisePriority},
		{k.lowerPriority, app.EventLowerPriority},
		{k.addTop, app.EventAddCardTop},
		{k.addBottom, app.EventAddCardBottom},
		{k.addColumn, app.EventAddColumn},
		{k.renameColumn, app.EventRenameColumn},
		{k.removeColumn, app.EventRemoveColumn},
		{k.moveLeft, app.EventLeft},
		{k.moveRight, app.EventRight},
		{k.moveUp, app.EventUp},
		{k.moveDown, app.EventDown},
		{k.addHere, app.EventAddCardHere},
		{k.addBelow, app.EventAddCardBelow},
		{k.editCard, app.EventEditCard},
		{k.deleteCard, app.EventDeleteCard},
	}
	for _, p := range pairs {
		if matches(p.binding) {
			return p.kind, true
		}
	}
	return app.EventNone, false
}

// ShortHelp returns the footer bindings.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.addBelow, k.editCard, k.toggleDone, k.cardNextColumn, k.write, k.toggleHelp, k.quit,
	}
}

// FullHelp returns the grouped bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.moveLeft, k.moveRight, k.moveUp, k.moveDown, k.cardUp, k.cardDown, k.cardPrevColumn, k.cardNextColumn},
		{k.addHere, k.addBelow, k.addTop, k.addBottom, k.editCard, k.deleteCard, k.copyTitle},
		{k.toggleDone, k.raisePriority, k.lowerPriority, k.addColumn, k.renameColumn, k.removeColumn},
		{k.write, k.save, k.toggleHelp, k.quit},
	}
}
