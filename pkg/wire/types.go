package wire

import "encoding/json"

// Remote-procedure method names the agent can invoke on the board.
const (
	MethodUpdateContent      = "update_content"
	MethodHighlightText      = "highlight_text"
	MethodClearBoard         = "clear_board"
	MethodShowStudentFocus   = "show_student_focus"
	MethodStartCognitiveTest = "start_cognitive_test"
	MethodRevealAnswer       = "reveal_answer"
	MethodUpdateScores       = "update_scores"
	MethodShowErrorBuzzer    = "show_error_buzzer"
)

// Call is one inbound remote-procedure invocation frame.
type Call struct {
	ID     string          `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Ack is the response frame for a call. Every handled call produces exactly
// one Ack; handler failures travel back in Error so the agent can see that
// its command did not take effect.
type Ack struct {
	ID      string                 `json:"id,omitempty"`
	Success bool                   `json:"success"`
	Error   string                 `json:"error,omitempty"`
	Result  map[string]interface{} `json:"result,omitempty"`
}

// Term is one agent-specified highlight request: a word to mark and the
// category that selects its presentation rule.
type Term struct {
	Word      string `json:"word"`
	Type      string `json:"type"`
	Positions []int  `json:"positions,omitempty"`
}

// Answer is one quiz answer slot. Order in the answers array defines the
// stable display index.
type Answer struct {
	Text       string  `json:"text"`
	Percentage float64 `json:"percentage"`
}
