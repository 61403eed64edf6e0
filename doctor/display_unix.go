//go:build !windows && !darwin

package doctor

import (
	"context"
	"errors"
	"os"
)

func checkDisplay(context.Context) (string, error) {
	if d := os.Getenv("WAYLAND_DISPLAY"); d != "" {
		return "wayland " + d, nil
	}
	if d := os.Getenv("DISPLAY"); d != "" {
		return "x11 " + d, nil
	}
	return "", errors.New("neither DISPLAY nor WAYLAND_DISPLAY is set")
}
