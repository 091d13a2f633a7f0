// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Playback Window - these keys bound the number of simultaneously live players around the current item.
const (
	WindowLoadDistance   = "window.load_distance"
	WindowUnloadDistance = "window.unload_distance"
)

// Progressive Rendering - these keys size the synchronous first batch and the idle-time batches.
const (
	RenderInitialBatch = "render.initial_batch"
	RenderBatchSize    = "render.batch_size"
)

// Viewport - intersection thresholds, in percent of item height.
const (
	ViewportThresholds = "viewport.thresholds"
)

// Safety Net - grace period before the corrective playback check.
const (
	SafetyNetGraceMs = "safetynet.grace_ms"
)

// Event Loop - idle scheduling and its timer fallback.
const (
	LoopIdle          = "loop.idle"
	LoopIdleTimeoutMs = "loop.idle_timeout_ms"
)

// Media Playback - these keys select and tune the player provider.
const (
	PlayerProvider = "player.provider"
)

// Simulated Provider - knobs reproducing the unreliability of third-party embeds.
const (
	SimBootstrapDelayMs = "sim.bootstrap_delay_ms"
	SimReadyDelayMs     = "sim.ready_delay_ms"
	SimCueInsteadOfPlay = "sim.cue_instead_of_play"
	SimSwallowPlays     = "sim.swallow_plays"
	SimClipSeconds      = "sim.clip_seconds"
)

// History Tracking - these keys configure the persistence of the last viewed position.
const (
	HistorySavePosition = "history.save_position"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these settings govern the non-TUI application behavior.
const (
	CliColored = "cli.colored"
)
