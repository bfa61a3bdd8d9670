//go:build windows

package sweetmark

const firefoxProcessName = "firefox.exe"

func processListCommand() (string, []string) {
	return "tasklist", nil
}
