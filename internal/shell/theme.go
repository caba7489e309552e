package shell

const ThemeKey = "shopmate-theme"

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

func ParseTheme(s string) Theme {
	if s == string(Dark) {
		return Dark
	}
	return Light
}

func (t Theme) Toggle() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// BodyClass is the class put on <body>; empty for the light theme.
func (t Theme) BodyClass() string {
	if t == Dark {
		return "dark-theme"
	}
	return ""
}

// Icon is the toggle glyph: a sun while dark, a moon while light.
func (t Theme) Icon() string {
	if t == Dark {
		return "fa-sun"
	}
	return "fa-moon"
}

// LoadTheme reads the saved preference, defaulting to light.
func LoadTheme(s Store) (Theme, error) {
	if s == nil {
		return Light, nil
	}
	v, ok, err := s.Get(ThemeKey)
	if err != nil || !ok {
		return Light, err
	}
	return ParseTheme(v), nil
}

// ToggleTheme flips the saved preference and returns the new value.
func ToggleTheme(s Store) (Theme, error) {
	cur, err := LoadTheme(s)
	if err != nil {
		return cur, err
	}
	next := cur.Toggle()
	if s != nil {
		if err := s.Set(ThemeKey, string(next)); err != nil {
			return cur, err
		}
	}
	return next, nil
}
