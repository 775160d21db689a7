package video

// MediaInfo holds the probed properties of a media file that the cut
// planner and extractor depend on.
type MediaInfo struct {
	DurationSeconds float64
	VideoCodec      string
	AudioCodec      string
}

// HasVideo returns true if a video stream was found.
func (m *MediaInfo) HasVideo() bool {
	return m.VideoCodec != ""
}

// HasAudio returns true if an audio stream was found.
func (m *MediaInfo) HasAudio() bool {
	return m.AudioCodec != ""
}

// AudioIsAAC returns true if the audio track can be stream-copied into
// a raw .aac file.
func (m *MediaInfo) AudioIsAAC() bool {
	return m.AudioCodec == "aac"
}
