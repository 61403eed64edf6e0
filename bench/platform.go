package bench

import "runtime"

// Platform maps GOOS onto the names used in results and history.
func Platform() string {
	return platformName(runtime.GOOS)
}

func platformName(goos string) string {
	switch goos {
	case "windows":
		return "windows"
	case "darwin":
		return "macos"
	}
	return "linux"
}

func Arch() string {
	return archName(runtime.GOARCH)
}

func archName(goarch string) string {
	if goarch == "arm64" {
		return "arm64"
	}
	return "x64"
}
