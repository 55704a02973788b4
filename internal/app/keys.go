package app

import (
	"context"
	"sync"

	"github.com/eiannone/keyboard"
)

type inputEvent int

const (
	inputEventQuit inputEvent = iota
	inputEventPause
)

// startInputListener reads single keys from the controlling terminal. The
// returned channel is nil when the keyboard cannot be opened.
func (a *App) startInputListener(ctx context.Context) <-chan inputEvent {
	if err := keyboard.Open(); err != nil {
		a.log.Debug("keyboard input disabled", "error", err)
		return nil
	}

	events := make(chan inputEvent, 16)
	closeOnce := &sync.Once{}
	go func() {
		<-ctx.Done()
		closeOnce.Do(func() {
			_ = keyboard.Close()
		})
	}()

	go func() {
		defer close(events)
		defer closeOnce.Do(func() {
			_ = keyboard.Close()
		})
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				return
			}
			select {
			case <-ctx.Done():
				return
			default:
			}
			switch {
			case key == keyboard.KeyEsc || key == keyboard.KeyCtrlC || char == 'q' || char == 'Q':
				events <- inputEventQuit
				return
			case key == keyboard.KeySpace || char == ' ' || char == 'p' || char == 'P':
				select {
				case events <- inputEventPause:
				default:
				}
			}
		}
	}()
	return events
}
