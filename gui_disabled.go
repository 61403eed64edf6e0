//go:build nogui

package main

import "errors"

func startGUI(appOptions, bootOptions) error {
	return errors.New("built without GUI support (rebuild without -tags nogui)")
}
