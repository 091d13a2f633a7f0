package tui

type state int

const (
	loadingState state = iota
	feedState
	filterState
	errorState
)

func (s state) String() string {
	switch s {
	case loadingState:
		return "loading"
	case feedState:
		return "feed"
	case filterState:
		return "filter"
	case errorState:
		return "error"
	default:
		return "unknown"
	}
}
