package dispatch

import "github.com/hupe1980/ragstream/core"

// Observer receives presentation hooks for a turn. Hooks are invoked
// synchronously, in event order, after the turn state was updated and without
// holding the turn's lock, so an observer may call Snapshot.
type Observer interface {
	// OnProgress is called for every thinking_start and thinking_update event.
	OnProgress(turnID string, p core.Progress)
	// OnThinkingComplete is called when the thinking phase ends.
	OnThinkingComplete(turnID string, message string)
	// OnAnswerOpened is called when the thinking display is replaced by an
	// empty answer placeholder.
	OnAnswerOpened(turnID string)
	// OnChunk is called for every legacy chunk with the appended text.
	OnChunk(turnID string, text string)
	// OnMultimedia is called for legacy multimedia_content events.
	OnMultimedia(turnID string, items []core.MultimediaItem)
	// OnComplete is called once with the assembled answer.
	OnComplete(turnID string, answer core.UnifiedAnswer, parts []core.Part)
	// OnError is called once with the user-visible fallback message and the cause.
	OnError(turnID string, message string, err error)
}

// NoOpObserver ignores all hooks. Embed it to implement a subset of Observer.
type NoOpObserver struct{}

// OnProgress implements Observer.
func (NoOpObserver) OnProgress(string, core.Progress) {}

// OnThinkingComplete implements Observer.
func (NoOpObserver) OnThinkingComplete(string, string) {}

// OnAnswerOpened implements Observer.
func (NoOpObserver) OnAnswerOpened(string) {}

// OnChunk implements Observer.
func (NoOpObserver) OnChunk(string, string) {}

// OnMultimedia implements Observer.
func (NoOpObserver) OnMultimedia(string, []core.MultimediaItem) {}

// OnComplete implements Observer.
func (NoOpObserver) OnComplete(string, core.UnifiedAnswer, []core.Part) {}

// OnError implements Observer.
func (NoOpObserver) OnError(string, string, error) {}
