package wire

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Payload fields are pointers or slices so that an absent field is
// distinguishable from a zero value. The agent's payload shape is not
// versioned with this client, so every decoder degrades instead of failing:
// a payload that cannot be decoded yields the zero payload, and the
// reconciler treats missing fields as no-ops.

type ContentPayload struct {
	Text *string `json:"text"`
}

type HighlightPayload struct {
	Words []Term `json:"words"`
}

type FocusPayload struct {
	StudentName *string `json:"studentName"`
}

type QuizPayload struct {
	Question *string  `json:"question"`
	Answers  []Answer `json:"answers"`
}

type RevealPayload struct {
	Index *FlexibleIndex `json:"index"`
}

type ScoresPayload struct {
	Scores map[string]float64 `json:"scores"`
}

// FlexibleIndex is an int that also accepts JSON numbers with a fractional
// notation and numeric strings, so reveal calls can carry 2, 2.0 or "2".
type FlexibleIndex int

func (f *FlexibleIndex) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleIndex(int(n))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*f = FlexibleIndex(v)
	return nil
}

// DecodeContent extracts content text. A params value that is a JSON string
// or not JSON at all is treated as the text itself: methods whose payload is
// inherently a plain string must still work.
func DecodeContent(raw json.RawMessage) ContentPayload {
	if len(raw) == 0 {
		return ContentPayload{}
	}

	var p ContentPayload
	if err := json.Unmarshal(raw, &p); err == nil {
		return p
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ContentPayload{Text: &s}
	}

	text := string(raw)
	return ContentPayload{Text: &text}
}

func DecodeHighlight(raw json.RawMessage) HighlightPayload {
	var p HighlightPayload
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return HighlightPayload{}
	}
	return p
}

func DecodeFocus(raw json.RawMessage) FocusPayload {
	var p FocusPayload
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return FocusPayload{}
	}
	return p
}

func DecodeQuiz(raw json.RawMessage) QuizPayload {
	var p QuizPayload
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return QuizPayload{}
	}
	return p
}

func DecodeReveal(raw json.RawMessage) RevealPayload {
	var p RevealPayload
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return RevealPayload{}
	}
	return p
}

func DecodeScores(raw json.RawMessage) ScoresPayload {
	var p ScoresPayload
	if len(raw) == 0 {
		return p
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return ScoresPayload{}
	}
	return p
}
