// Package icon renders UI symbols in the variant selected by configuration.
//
// Icons can be displayed as emoji, nerd-font glyphs, plain ASCII, kaomoji,
// or Unicode squares depending on user preference.
package icon

import (
	"github.com/reelfeed/reelfeed/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

// AvailableVariants returns every supported icon style.
func AvailableVariants() []string {
	return []string{emoji, nerd, plain, kaomoji, squares}
}

// Icon identifies a symbol.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Playing
	Paused
	Loading
	Placeholder
	Embed
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

func (d *iconDef) Get() string {
	switch viper.GetString(key.IconsVariant) {
	case emoji:
		return d.emoji
	case nerd:
		return d.nerd
	case plain:
		return d.plain
	case kaomoji:
		return d.kaomoji
	case squares:
		return d.squares
	default:
		return ""
	}
}

var icons = map[Icon]*iconDef{
	Fail:        {emoji: "💀", nerd: "", plain: "x", kaomoji: "(×﹏×)", squares: "🟥"},
	Success:     {emoji: "🎉", nerd: "", plain: "+", kaomoji: "(ᵔ◡ᵔ)", squares: "🟩"},
	Progress:    {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・_・ヾ", squares: "🟨"},
	Playing:     {emoji: "▶️", nerd: "", plain: ">", kaomoji: "(•̀ᴗ•́)", squares: "🟩"},
	Paused:      {emoji: "⏸️", nerd: "", plain: "=", kaomoji: "(－_－)", squares: "🟦"},
	Loading:     {emoji: "🔄", nerd: "", plain: "*", kaomoji: "(°ロ°)", squares: "🟨"},
	Placeholder: {emoji: "⬜", nerd: "", plain: ".", kaomoji: "( ˘ω˘ )", squares: "⬜"},
	Embed:       {emoji: "🔗", nerd: "", plain: "#", kaomoji: "(¬‿¬)", squares: "🟪"},
}

// Get returns the rendered symbol for i, or an empty string for unknown icons.
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}
	return def.Get()
}
