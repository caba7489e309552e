package shell

// Rect is an element's box in page coordinates.
type Rect struct {
	Left, Top, Width, Height float64
}

// TooltipGap separates a tooltip from its target.
const TooltipGap = 10

// PlaceTooltip centers a tip of the given size above target.
func PlaceTooltip(target Rect, tipW, tipH float64) (left, top float64) {
	left = target.Left + target.Width/2 - tipW/2
	top = target.Top - tipH - TooltipGap
	return left, top
}

// FocusTrap cycles keyboard focus across n focusable elements.
type FocusTrap struct {
	N        int
	OnEscape func()
}

// Key handles a key press while element current has focus. It returns the
// element to focus next and whether the default action should be suppressed.
func (f FocusTrap) Key(current int, key string, shift bool) (int, bool) {
	switch key {
	case "Escape":
		if f.OnEscape != nil {
			f.OnEscape()
		}
		return current, false
	case "Tab":
		if f.N == 0 {
			return current, false
		}
		last := f.N - 1
		if shift && current == 0 {
			return last, true
		}
		if !shift && current == last {
			return 0, true
		}
	}
	return current, false
}

const spinner = `<i class="fas fa-spinner fa-spin mr-2"></i>`

// Button remembers its content while it shows a loading label.
type Button struct {
	Content  string
	Disabled bool

	saved   string
	loading bool
}

// ShowLoading swaps in a spinner label and disables the button.
func (b *Button) ShowLoading(text string) {
	if text == "" {
		text = "Loading..."
	}
	if !b.loading {
		b.saved = b.Content
	}
	b.loading = true
	b.Content = spinner + text
	b.Disabled = true
}

// HideLoading restores the original content. It is a no-op when not loading.
func (b *Button) HideLoading() {
	if !b.loading {
		return
	}
	b.Content = b.saved
	b.Disabled = false
	b.loading = false
	b.saved = ""
}

func (b *Button) Loading() bool { return b.loading }
