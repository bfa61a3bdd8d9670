//go:build linux && !android

package sweetmark

const firefoxProcessName = "firefox"

func processListCommand() (string, []string) {
	return "ps", []string{"-A"}
}
