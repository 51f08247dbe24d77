// ABOUTME: Error types surfaced by navigation transitions
// ABOUTME: Distinguishes playback failures from directory/persistence failures

package nav

// PlaybackError reports that the player process failed to start or stop.
type PlaybackError struct {
	Err error
}

func (e *PlaybackError) Error() string {
	return "playback: " + e.Err.Error()
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

// LoadError reports that a directory fetch or favorites write failed. The
// session always continues after a LoadError.
type LoadError struct {
	Err error
}

func (e *LoadError) Error() string {
	return "load: " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
