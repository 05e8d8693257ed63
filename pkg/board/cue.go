package board

// CuePlayer receives one-shot audible cue triggers. Playback itself lives
// outside this package; the default player does nothing.
type CuePlayer interface {
	Play(name string)
}

const (
	CueReveal = "reveal"
	CueBuzzer = "buzzer"
)

type NoopCue struct{}

func (NoopCue) Play(string) {}

func NewNoopCue() CuePlayer {
	return &NoopCue{}
}
