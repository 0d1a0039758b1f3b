package usecase

import "github.com/vitos/trade_backtest/internal/domain"

// emitter is a per-engine observer registry. Dispatch is synchronous and
// ordered: listeners observe events in the exact order the engine produces
// them. No process-wide state.
type emitter struct {
	handlers map[domain.EventName][]func(domain.Event)
}

func newEmitter() *emitter {
	return &emitter{handlers: make(map[domain.EventName][]func(domain.Event))}
}

func (e *emitter) subscribe(name domain.EventName, fn func(domain.Event)) {
	e.handlers[name] = append(e.handlers[name], fn)
}

func (e *emitter) emit(ev domain.Event) {
	for _, fn := range e.handlers[ev.EventName()] {
		fn(ev)
	}
}
