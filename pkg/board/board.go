package board

import (
	"strings"
	"sync"
	"time"

	"github.com/lumenclass/boardlink/pkg/highlight"
	"github.com/lumenclass/boardlink/pkg/logger"
	"github.com/lumenclass/boardlink/pkg/wire"
)

type View string

const (
	ViewContent       View = "content"
	ViewCognitiveTest View = "cognitive_test"
)

type QuizAnswer struct {
	Text       string
	Percentage float64
	Revealed   bool
}

// State is the shared display state. It is owned by the Board: every
// mutation goes through one reconciler rule, readers get copies.
type State struct {
	ContentText    string
	ContentTree    highlight.Container
	Terms          []wire.Term
	FocusedStudent string
	View           View
	QuizQuestion   string
	QuizAnswers    []QuizAnswer
	Scores         map[string]float64
}

// Renderer supplies the node tree for content text. Satisfied by
// render.Renderer; kept as an interface so tests can swap it out.
type Renderer interface {
	Render(source string) highlight.Container
}

// Board applies per-method state transitions. Every rule is defensive:
// absent or malformed payload fields leave state untouched instead of
// failing, because the agent's payload shape is not versioned with us.
type Board struct {
	mu         sync.Mutex
	state      State
	renderer   Renderer
	cue        CuePlayer
	focusDelay time.Duration
	focusTimer *time.Timer
}

func New(renderer Renderer, cue CuePlayer, focusDelay time.Duration) *Board {
	if cue == nil {
		cue = NewNoopCue()
	}
	if focusDelay <= 0 {
		focusDelay = 5 * time.Second
	}
	return &Board{
		renderer:   renderer,
		cue:        cue,
		focusDelay: focusDelay,
		state: State{
			View:   ViewContent,
			Scores: map[string]float64{},
		},
	}
}

// UpdateContent replaces the board text and switches back to content view.
// Highlights are always cleared: stale highlights must never outlive the
// text they were matched against.
func (b *Board) UpdateContent(p wire.ContentPayload) {
	if p.Text == nil {
		return
	}

	tree := highlight.Container{
		Kind:     "document",
		Children: []highlight.Node{highlight.Text{Content: *p.Text}},
	}
	if b.renderer != nil {
		tree = b.renderer.Render(*p.Text)
	}

	b.mu.Lock()
	b.state.ContentText = *p.Text
	b.state.ContentTree = tree
	b.state.Terms = nil
	b.state.View = ViewContent
	b.mu.Unlock()
}

// HighlightWords replaces the highlight set wholesale. An absent or empty
// word list clears it.
func (b *Board) HighlightWords(p wire.HighlightPayload) {
	b.mu.Lock()
	b.state.Terms = p.Words
	b.mu.Unlock()
}

// Clear empties content and highlights. Idempotent.
func (b *Board) Clear() {
	b.mu.Lock()
	b.state.ContentText = ""
	b.state.ContentTree = highlight.Container{Kind: "document"}
	b.state.Terms = nil
	b.mu.Unlock()
}

// FocusStudent sets the focused student and arms the auto-clear timer. A
// second focus before the timer fires resets it; there is never more than
// one pending auto-clear.
func (b *Board) FocusStudent(p wire.FocusPayload) {
	if p.StudentName == nil || strings.TrimSpace(*p.StudentName) == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.state.FocusedStudent = *p.StudentName
	if b.focusTimer != nil {
		b.focusTimer.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(b.focusDelay, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		// A newer focus call replaced this timer while it was firing.
		if b.focusTimer != t {
			return
		}
		b.state.FocusedStudent = ""
		b.focusTimer = nil
	})
	b.focusTimer = t
}

// StartQuiz initializes the quiz with all answers unrevealed and switches
// the view. Answer order defines the stable display index.
func (b *Board) StartQuiz(p wire.QuizPayload) {
	if p.Question == nil || len(p.Answers) == 0 {
		return
	}

	answers := make([]QuizAnswer, len(p.Answers))
	for i, a := range p.Answers {
		answers[i] = QuizAnswer{Text: a.Text, Percentage: a.Percentage}
	}

	b.mu.Lock()
	b.state.QuizQuestion = *p.Question
	b.state.QuizAnswers = answers
	b.state.View = ViewCognitiveTest
	b.mu.Unlock()
}

// RevealAnswer flips one answer's revealed flag and plays the reveal cue.
// An out-of-range index is a no-op, not an error.
func (b *Board) RevealAnswer(p wire.RevealPayload) {
	if p.Index == nil {
		return
	}
	idx := int(*p.Index)

	b.mu.Lock()
	if idx < 0 || idx >= len(b.state.QuizAnswers) {
		b.mu.Unlock()
		logger.DebugCF("board", "Reveal index out of range", map[string]interface{}{
			"index":   idx,
			"answers": len(b.state.QuizAnswers),
		})
		return
	}
	b.state.QuizAnswers[idx].Revealed = true
	b.mu.Unlock()

	b.cue.Play(CueReveal)
}

// UpdateScores replaces the team-score mapping wholesale.
func (b *Board) UpdateScores(p wire.ScoresPayload) {
	if p.Scores == nil {
		return
	}

	scores := make(map[string]float64, len(p.Scores))
	for k, v := range p.Scores {
		scores[k] = v
	}

	b.mu.Lock()
	b.state.Scores = scores
	b.mu.Unlock()
}

// Buzzer plays the error-buzzer cue. No state mutation.
func (b *Board) Buzzer() {
	b.cue.Play(CueBuzzer)
}

// Snapshot returns a copy of the current state for rendering.
func (b *Board) Snapshot() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := b.state
	s.Terms = append([]wire.Term(nil), b.state.Terms...)
	s.QuizAnswers = append([]QuizAnswer(nil), b.state.QuizAnswers...)
	s.Scores = make(map[string]float64, len(b.state.Scores))
	for k, v := range b.state.Scores {
		s.Scores[k] = v
	}
	return s
}

// RenderedContent returns the content tree with the active highlight terms
// annotated into it.
func (b *Board) RenderedContent() highlight.Node {
	b.mu.Lock()
	tree := b.state.ContentTree
	terms := append([]wire.Term(nil), b.state.Terms...)
	b.mu.Unlock()

	return highlight.NewMatcher(terms).Apply(tree)
}

// Teardown cancels the pending focus auto-clear, if any.
func (b *Board) Teardown() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.focusTimer != nil {
		b.focusTimer.Stop()
		b.focusTimer = nil
	}
}
