package tui

import (
	"os"
	"strings"
	"sync"

	"docdesk/internal/store"
)

// Terminal apps can't change the user's font. Instead we choose between Unicode
// and ASCII glyph sets for tile affordances (checkboxes, icons, twisties).

type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

var (
	glyphsMu      sync.RWMutex
	currentGlyphs = glyphSetUnicode
)

// applyGlyphPreference reads DOCDESK_TUI_GLYPHS, falling back to the config.
func applyGlyphPreference(cfg *store.GlobalConfig) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("DOCDESK_TUI_GLYPHS")))
	if v == "" {
		v = cfg.Glyphs()
	}
	switch v {
	case "unicode", "utf8":
		setGlyphs(glyphSetUnicode)
	case "ascii":
		setGlyphs(glyphSetASCII)
	}
}

func setGlyphs(gs glyphSet) {
	glyphsMu.Lock()
	currentGlyphs = gs
	glyphsMu.Unlock()
}

func glyphs() glyphSet {
	glyphsMu.RLock()
	gs := currentGlyphs
	glyphsMu.RUnlock()
	return gs
}

func pick(unicode, ascii string) string {
	if glyphs() == glyphSetASCII {
		return ascii
	}
	return unicode
}

func glyphChecked() string   { return pick("■", "[x]") }
func glyphUnchecked() string { return pick("□", "[ ]") }

// glyphUnselectable marks tiles that can't join a selection.
func glyphUnselectable() string { return pick("·", " - ") }

func glyphTwistyCollapsed() string { return pick("▸", ">") }
func glyphTwistyExpanded() string  { return pick("▾", "v") }
func glyphDot() string             { return pick("·", "|") }
func glyphHRule() string           { return pick("─", "-") }
func glyphDrag() string            { return pick("⇢", "=>") }

// glyphIcon maps a tile icon class to a single glyph.
func glyphIcon(class string) string {
	switch {
	case strings.HasSuffix(class, "spinner"):
		return pick("◌", "~")
	case strings.HasSuffix(class, "alert_gray"):
		return pick("⚠", "!")
	case strings.HasSuffix(class, "lock"):
		return pick("◍", "#")
	case strings.HasSuffix(class, "published"):
		return pick("◉", "@")
	default:
		return pick("○", "o")
	}
}
