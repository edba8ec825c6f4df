package buttons

import (
	"context"
	"sync"

	"github.com/rook-computer/doorcam/internal/system"
)

type Event string

const (
	Record Event = "record"
	Stop   Event = "stop"
	Exit   Event = "exit"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { close(n.ch); return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// keymap binds evdev key codes to events.
var keymap = map[uint16]Event{
	system.KeyR:  Record,
	system.KeyS:  Stop,
	system.KeyF4: Exit,
}

func EventForKey(code uint16) (Event, bool) {
	ev, ok := keymap[code]
	return ev, ok
}

// KeyboardButtons turns hardware key presses into events.
type KeyboardButtons struct {
	Logger Logger

	ch     chan Event
	cancel context.CancelFunc
	once   sync.Once
}

func NewKeyboardButtons(logger Logger) *KeyboardButtons {
	return &KeyboardButtons{Logger: logger, ch: make(chan Event, 8)}
}

func (k *KeyboardButtons) Start(ctx context.Context) error {
	ctx, k.cancel = context.WithCancel(ctx)
	codes := make([]uint16, 0, len(keymap))
	for code := range keymap {
		codes = append(codes, code)
	}
	system.WatchKeys(ctx, k.Logger, codes, func(code uint16) {
		if ev, ok := EventForKey(code); ok {
			k.emit(ev)
		}
	})
	return nil
}

// emit drops the event when nobody keeps up.
func (k *KeyboardButtons) emit(ev Event) {
	select {
	case k.ch <- ev:
	default:
		if k.Logger != nil {
			k.Logger.Errorf("buttons", "dropped %s event", ev)
		}
	}
}

func (k *KeyboardButtons) Stop() error {
	k.once.Do(func() {
		if k.cancel != nil {
			k.cancel()
		}
	})
	return nil
}

func (k *KeyboardButtons) Events() <-chan Event { return k.ch }
