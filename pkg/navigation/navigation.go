package navigation

import (
	"errors"
	"strings"
)

// ItemClass is the styling class carried by every non-primary header item.
const ItemClass = "nav-item"

var ErrUnknownItem = errors.New("unknown navigation item")

// Item represents a navigation link that can be rendered in shared layouts.
// Path is either empty (the site root) or starts with a slash.
type Item struct {
	Label string
	Path  string
	Class string
}

// Link is an Item resolved against the origin of the current page.
type Link struct {
	Item
	Href string
}

// View is the render-ready form of a Header.
type View struct {
	Title Link
	Items []Link
}

// Header is the application navigation header: a clickable title followed by
// a fixed, ordered list of secondary items. A Header is immutable once built
// and can be shared between requests.
type Header struct {
	title Item
	items []Item
}

// NewHeader builds the fixed header. The title and "List" both lead to the
// site root.
func NewHeader() Header {
	return Header{
		title: Item{Label: "Udacitrivia", Path: ""},
		items: []Item{
			{Label: "List", Path: "", Class: ItemClass},
			{Label: "Add", Path: "/add", Class: ItemClass},
			{Label: "Play", Path: "/play", Class: ItemClass},
		},
	}
}

func (h Header) Title() Item {
	return h.title
}

// Items returns a copy of the secondary items in display order.
func (h Header) Items() []Item {
	items := make([]Item, len(h.items))
	copy(items, h.items)
	return items
}

// Lookup finds an element by label, case-insensitively. The title is checked
// first.
func (h Header) Lookup(label string) (Item, bool) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Item{}, false
	}
	if strings.EqualFold(h.title.Label, label) {
		return h.title, true
	}
	for _, item := range h.items {
		if strings.EqualFold(item.Label, label) {
			return item, true
		}
	}
	return Item{}, false
}

// Click performs the click handler of the element with the given label: it
// asks nav to load origin+path. Nothing else happens.
func (h Header) Click(label, origin string, nav Navigator) error {
	item, ok := h.Lookup(label)
	if !ok {
		return ErrUnknownItem
	}
	nav.Navigate(Target(origin, item.Path))
	return nil
}

// View resolves every element against origin.
func (h Header) View(origin string) View {
	view := View{
		Title: Link{Item: h.title, Href: Target(origin, h.title.Path)},
		Items: make([]Link, 0, len(h.items)),
	}
	for _, item := range h.items {
		view.Items = append(view.Items, Link{Item: item, Href: Target(origin, item.Path)})
	}
	return view
}
