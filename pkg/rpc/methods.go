package rpc

import (
	"context"

	"github.com/lumenclass/boardlink/pkg/board"
	"github.com/lumenclass/boardlink/pkg/wire"
)

// RegisterBoardMethods installs every board procedure on the session and
// returns one teardown function that unregisters them all.
func RegisterBoardMethods(r *Registry, t Transport, b *board.Board) func() {
	handlers := map[string]Handler{
		wire.MethodUpdateContent: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.UpdateContent(wire.DecodeContent(call.Params))
			return nil, nil
		},
		wire.MethodHighlightText: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			p := wire.DecodeHighlight(call.Params)
			b.HighlightWords(p)
			return map[string]interface{}{"words": len(p.Words)}, nil
		},
		wire.MethodClearBoard: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.Clear()
			return nil, nil
		},
		wire.MethodShowStudentFocus: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.FocusStudent(wire.DecodeFocus(call.Params))
			return nil, nil
		},
		wire.MethodStartCognitiveTest: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.StartQuiz(wire.DecodeQuiz(call.Params))
			return nil, nil
		},
		wire.MethodRevealAnswer: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.RevealAnswer(wire.DecodeReveal(call.Params))
			return nil, nil
		},
		wire.MethodUpdateScores: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.UpdateScores(wire.DecodeScores(call.Params))
			return nil, nil
		},
		wire.MethodShowErrorBuzzer: func(ctx context.Context, call wire.Call) (map[string]interface{}, error) {
			b.Buzzer()
			return nil, nil
		},
	}

	teardowns := make([]func(), 0, len(handlers))
	for method, handler := range handlers {
		teardowns = append(teardowns, r.Register(t, method, handler))
	}

	return func() {
		for _, fn := range teardowns {
			fn()
		}
	}
}
