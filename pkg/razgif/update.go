package razgif

// Update mirrors the session state to every connected client after
// each change.
type Update struct {
	Frames    int `json:"frames"`
	Width     int `json:"w"`
	Height    int `json:"h"`
	Loop      int `json:"loop"`
	MaxColors int `json:"colors"`
}

func newUpdate(state *sessionState) *Update {
	return &Update{
		Frames:    len(state.Frames),
		Width:     state.Width,
		Height:    state.Height,
		Loop:      state.Loop,
		MaxColors: state.MaxColors,
	}
}
