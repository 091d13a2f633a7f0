// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reelfeed/reelfeed/constant"
	"github.com/reelfeed/reelfeed/filesystem"
	"github.com/reelfeed/reelfeed/key"
	"github.com/reelfeed/reelfeed/where"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// EnvKeyReplacer is a strings.Replacer used to normalize configuration keys into environment variable naming conventions.
var EnvKeyReplacer = strings.NewReplacer(".", "_")

// ErrInvalidSettings is returned by Settings.Validate.
var ErrInvalidSettings = errors.New("invalid settings")

// Setup initializes the global configuration state, including defaults, environment bindings, and localized file resolution.
func Setup() error {
	viper.SetConfigName(constant.Reelfeed)
	viper.SetConfigType("toml")
	viper.SetFs(filesystem.API())
	viper.AddConfigPath(where.Config())

	viper.SetEnvPrefix(constant.Reelfeed)
	viper.SetEnvKeyReplacer(EnvKeyReplacer)
	for _, env := range EnvExposed {
		viper.MustBindEnv(env)
	}

	viper.SetTypeByDefaultValue(true)
	for name, field := range Default {
		viper.SetDefault(name, field.Value)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return err
	}

	return nil
}

// SimSettings tunes the simulated player provider.
type SimSettings struct {
	BootstrapDelay   time.Duration
	ReadyDelay       time.Duration
	CueInsteadOfPlay bool
	SwallowPlays     int
	ClipLength       time.Duration
}

// Settings is the typed view of every key the playback session depends on.
type Settings struct {
	LoadDistance   int
	UnloadDistance int
	InitialBatch   int
	BatchSize      int
	// Thresholds are fractions in (0, 1], ascending.
	Thresholds  []float64
	Grace       time.Duration
	Idle        bool
	IdleTimeout time.Duration
	Provider    string
	Sim         SimSettings
}

// Load reads the current viper state into Settings and validates it.
func Load() (Settings, error) {
	ms := func(k string) time.Duration {
		return time.Duration(viper.GetInt(k)) * time.Millisecond
	}

	thresholds := lo.Map(viper.GetIntSlice(key.ViewportThresholds), func(p int, _ int) float64 {
		return float64(p) / 100
	})
	slices.Sort(thresholds)

	s := Settings{
		LoadDistance:   viper.GetInt(key.WindowLoadDistance),
		UnloadDistance: viper.GetInt(key.WindowUnloadDistance),
		InitialBatch:   viper.GetInt(key.RenderInitialBatch),
		BatchSize:      viper.GetInt(key.RenderBatchSize),
		Thresholds:     lo.Uniq(thresholds),
		Grace:          ms(key.SafetyNetGraceMs),
		Idle:           viper.GetBool(key.LoopIdle),
		IdleTimeout:    ms(key.LoopIdleTimeoutMs),
		Provider:       viper.GetString(key.PlayerProvider),
		Sim: SimSettings{
			BootstrapDelay:   ms(key.SimBootstrapDelayMs),
			ReadyDelay:       ms(key.SimReadyDelayMs),
			CueInsteadOfPlay: viper.GetBool(key.SimCueInsteadOfPlay),
			SwallowPlays:     viper.GetInt(key.SimSwallowPlays),
			ClipLength:       time.Duration(viper.GetInt(key.SimClipSeconds)) * time.Second,
		},
	}

	return s, s.Validate()
}

// Validate reports the first inconsistent setting.
func (s Settings) Validate() error {
	switch {
	case s.LoadDistance < 0:
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidSettings, key.WindowLoadDistance)
	case s.UnloadDistance <= s.LoadDistance:
		return fmt.Errorf("%w: %s (%d) must be greater than %s (%d)",
			ErrInvalidSettings, key.WindowUnloadDistance, s.UnloadDistance, key.WindowLoadDistance, s.LoadDistance)
	case s.InitialBatch < 1 || s.BatchSize < 1:
		return fmt.Errorf("%w: render batch sizes must be positive", ErrInvalidSettings)
	case len(s.Thresholds) == 0:
		return fmt.Errorf("%w: %s is empty", ErrInvalidSettings, key.ViewportThresholds)
	case s.Thresholds[0] <= 0 || s.Thresholds[len(s.Thresholds)-1] > 1:
		return fmt.Errorf("%w: %s must lie in (0, 100]", ErrInvalidSettings, key.ViewportThresholds)
	case s.Grace <= 0:
		return fmt.Errorf("%w: %s must be positive", ErrInvalidSettings, key.SafetyNetGraceMs)
	}

	return nil
}
