package constant

// Type markers carried by feed nodes. A placeholder marks an embeddable item whose
// player has not been created yet (or has been torn down).
const (
	MarkerPlaceholder = "reel-placeholder"
	MarkerPlayer      = "reel-player"
	MarkerEmbed       = "reel-embed"
)
