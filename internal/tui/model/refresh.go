package model

// Refresh coalesces redraw signals from every view model into one channel
// the UI loop drains. Signals collapse; the UI repaints from current state,
// it never replays individual changes.
type Refresh struct {
	ch chan struct{}
}

// NewRefresh creates a refresh signal.
func NewRefresh() *Refresh {
	return &Refresh{ch: make(chan struct{}, 1)}
}

// C returns the channel that signals a redraw.
func (r *Refresh) C() <-chan struct{} {
	return r.ch
}

// Signal requests a redraw. Never blocks.
func (r *Refresh) Signal() {
	select {
	case r.ch <- struct{}{}:
	default:
	}
}
