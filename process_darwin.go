//go:build darwin && !ios

package sweetmark

const firefoxProcessName = "firefox"

func processListCommand() (string, []string) {
	return "ps", []string{"-ax"}
}
