package audio

// Track is the raw-sample capability the extractor needs from the media
// layer: PCM frames (int16, mono or interleaved stereo) at a known rate.
type Track interface {
	SampleRate() int
	ReadFrame() ([]int16, error)
}

// The media layer hands out different wrapper shapes depending on whether a
// source is local or remote: a bare track, a publication holding one, or a
// participant-level wrapper holding a publication. Resolution probes method
// sets, not concrete types.

type trackCarrier interface {
	Track() Track
}

type publicationCarrier interface {
	Publication() interface{}
}

// Resolve unwraps a source down to its Track, or nil when no accepted shape
// is found. Nesting is bounded so a cyclic wrapper cannot loop forever.
func Resolve(source interface{}) Track {
	for depth := 0; depth < 4 && source != nil; depth++ {
		if t, ok := source.(Track); ok {
			return t
		}
		switch v := source.(type) {
		case trackCarrier:
			source = v.Track()
		case publicationCarrier:
			source = v.Publication()
		default:
			return nil
		}
	}
	return nil
}
