package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Catalog errors
	ErrNetworkFailure     = fmt.Errorf("network failure")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrSongNotFound       = fmt.Errorf("song not found")
	ErrRefreshFailed      = fmt.Errorf("catalog refresh failed")

	// Playback errors
	ErrPlaybackStart    = fmt.Errorf("playback failed to start")
	ErrInvalidSeek      = fmt.Errorf("cannot seek: duration unknown")
	ErrEmptyPlaylist    = fmt.Errorf("playlist is empty")
	ErrIndexOutOfRange  = fmt.Errorf("index out of range")
	ErrAudioUnavailable = fmt.Errorf("audio output unavailable in this build")
	ErrUnsupportedMedia = fmt.Errorf("unsupported media format")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
