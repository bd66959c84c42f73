// Package navigation is the customer-side view stack: drill-down views are
// pushed and popped, tab selection flattens the stack to a single view, and
// profile/history need a signed-in user.
package navigation

import (
	"errors"
	"fmt"
)

type View string

const (
	Home          View = "home"
	Shop          View = "shop"
	Promo         View = "promo"
	History       View = "history"
	Profile       View = "profile"
	ProductDetail View = "product-detail"
	Cart          View = "cart"
	Checkout      View = "checkout"
)

var (
	ErrUnknownView  = errors.New("unknown view")
	ErrNotATab      = errors.New("view is not a tab")
	ErrAuthRequired = errors.New("sign in required")
)

var views = map[View]struct {
	tab     bool
	guarded bool
	// hides the bottom tab bar and the floating cart button
	fullScreen bool
}{
	Home:          {tab: true},
	Shop:          {tab: true},
	Promo:         {tab: true},
	History:       {tab: true, guarded: true},
	Profile:       {tab: true, guarded: true},
	ProductDetail: {fullScreen: true},
	Cart:          {fullScreen: true},
	Checkout:      {fullScreen: true},
}

func ParseView(s string) (View, error) {
	v := View(s)
	if _, ok := views[v]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownView, s)
	}
	return v, nil
}

// IsTab reports whether v is one of the five bottom-bar destinations.
func (v View) IsTab() bool {
	return views[v].tab
}

// Guarded reports whether v needs a signed-in user.
func (v View) Guarded() bool {
	return views[v].guarded
}

// Navigator holds the back stack and the highlighted tab. The stack is never empty.
type Navigator struct {
	Stack     []View `json:"stack"`
	ActiveTab View   `json:"activeTab"`
}

func New() Navigator {
	return Navigator{Stack: []View{Home}, ActiveTab: Home}
}

// Navigate pushes target. Guarded targets without a session return
// ErrAuthRequired and leave the navigator untouched.
func (n *Navigator) Navigate(target View, authenticated bool) error {
	if _, ok := views[target]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, target)
	}
	if target.Guarded() && !authenticated {
		return ErrAuthRequired
	}

	n.ensureRoot()
	n.Stack = append(n.Stack, target)
	if target.IsTab() {
		n.ActiveTab = target
	}
	return nil
}

// Back pops the top view. The root view is never popped; it reports whether
// anything changed.
func (n *Navigator) Back() bool {
	n.ensureRoot()
	if len(n.Stack) <= 1 {
		return false
	}

	n.Stack = n.Stack[:len(n.Stack)-1]
	if top := n.Current(); top.IsTab() {
		n.ActiveTab = top
	}
	return true
}

// SelectTab replaces the whole stack with [tab].
func (n *Navigator) SelectTab(tab View, authenticated bool) error {
	if _, ok := views[tab]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownView, tab)
	}
	if !tab.IsTab() {
		return fmt.Errorf("%w: %q", ErrNotATab, tab)
	}
	if tab.Guarded() && !authenticated {
		return ErrAuthRequired
	}

	n.Reset(tab)
	return nil
}

// Reset makes v the only view on the stack and the active tab.
func (n *Navigator) Reset(v View) {
	n.Stack = []View{v}
	n.ActiveTab = v
}

func (n Navigator) Current() View {
	if len(n.Stack) == 0 {
		return Home
	}
	return n.Stack[len(n.Stack)-1]
}

func (n Navigator) Depth() int {
	return len(n.Stack)
}

func (n Navigator) ShowTabBar() bool {
	return !views[n.Current()].fullScreen
}

func (n Navigator) ShowCartButton(cartLen int) bool {
	return cartLen > 0 && !views[n.Current()].fullScreen
}

func (n Navigator) Clone() Navigator {
	return Navigator{
		Stack:     append([]View(nil), n.Stack...),
		ActiveTab: n.ActiveTab,
	}
}

// ensureRoot repairs a navigator decoded from an empty or missing stack.
func (n *Navigator) ensureRoot() {
	if len(n.Stack) == 0 {
		n.Stack = []View{Home}
		n.ActiveTab = Home
	}
}
