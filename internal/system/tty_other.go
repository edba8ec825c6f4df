//go:build !unix

package system

import "errors"

var errNoConsole = errors.New("virtual terminal control needs a unix console")

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

func SetGraphicsMode() error { return errNoConsole }
func RestoreTextMode() error { return errNoConsole }
func HideCursor() error      { return errNoConsole }
func ShowCursor() error      { return errNoConsole }

func SetGraphicsModeWithLog(l logger) error { return errNoConsole }
func RestoreTextModeWithLog(l logger) error { return errNoConsole }
func HideCursorWithLog(l logger) error      { return errNoConsole }
func ShowCursorWithLog(l logger) error      { return errNoConsole }
