// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/reelfeed/reelfeed/color"
	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/style"
	"github.com/spf13/viper"
)

// Field is one configurable setting and its default.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Env returns the environment variable that overrides the field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.Reelfeed + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// Pretty renders the field for `config info`.
func (f *Field) Pretty() string {
	label := style.Fg(color.Blue)
	lines := []string{
		style.Faint(f.Description),
		label("Key:") + "     " + style.Fg(color.Purple)(f.Key),
		label("Env:") + "     " + f.Env(),
		label("Value:") + "   " + highlight(viper.Get(f.Key)),
		label("Default:") + " " + highlight(f.Value),
		label("Type:") + "    " + fmt.Sprintf("%T", f.Value),
	}
	return strings.Join(lines, "\n")
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

// MarshalJSON includes the current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        fmt.Sprintf("%T", f.Value),
	})
}

// Default holds every field by key.
var Default = make(map[string]Field)

// EnvExposed lists keys bound to environment variables, in declaration order.
var EnvExposed []string

var fields = []Field{
	// window
	{key.WindowLoadDistance, 2, "Items within this distance of the current item always have a live player"},
	{key.WindowUnloadDistance, 3, "Players further than this distance from the current item are destroyed.\nMust be greater than the load distance"},

	// render
	{key.RenderInitialBatch, 3, "Number of feed items rendered synchronously before the first frame"},
	{key.RenderBatchSize, 10, "Number of feed items rendered per idle batch"},

	// viewport and playback
	{key.ViewportThresholds, []int{50, 75, 100}, "Intersection thresholds in percent of the item height.\nThe lowest one decides whether an item counts as visible"},
	{key.SafetyNetGraceMs, 1500, "Milliseconds to wait before forcing playback of a visible, stalled item"},

	// loop
	{key.LoopIdle, true, "Render background batches when the event loop is idle.\nWhen disabled a timer is used instead"},
	{key.LoopIdleTimeoutMs, 200, "Maximum milliseconds an idle batch may be postponed"},

	// player
	{key.PlayerProvider, "sim", "Player provider to use.\nAvailable options are: sim, mpv"},
	{key.SimBootstrapDelayMs, 400, "Simulated provider: delay before the player API reports readiness"},
	{key.SimReadyDelayMs, 250, "Simulated provider: delay between construction and the ready event"},
	{key.SimCueInsteadOfPlay, false, "Simulated provider: cue the first play request instead of starting playback"},
	{key.SimSwallowPlays, 0, "Simulated provider: number of play requests per player that are silently ignored"},
	{key.SimClipSeconds, 15, "Simulated provider: clip length in seconds before the ended event"},

	// ambient
	{key.HistorySavePosition, true, "Remember the last viewed item of every manifest"},
	{key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)"},
	{key.LogsWrite, false, "Write logs"},
	{key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace"},
	{key.LogsJson, false, "Use json format for logs"},
	{key.CliColored, true, "Enable colored CLI output"},
}

func init() {
	for _, f := range fields {
		if _, exists := Default[f.Key]; exists {
			panic("duplicate config key: " + f.Key)
		}
		Default[f.Key] = f
		EnvExposed = append(EnvExposed, f.Key)
	}
}
