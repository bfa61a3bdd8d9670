package sweetmark

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-ini/ini"
)

// Profiles discovers Firefox profiles on this machine.
//
// profiles.ini is authoritative when present; otherwise any "*.default*"
// directory under the Firefox root is offered, which matches what Firefox
// creates for unnamed installs. A missing root is not an error, the caller
// just gets an empty list.
func Profiles() []Profile {
	var out []Profile
	for _, root := range firefoxRoots() {
		out = append(out, profilesUnder(root)...)
	}
	return out
}

func profilesUnder(root string) []Profile {
	if cfg, err := ini.Load(filepath.Join(root, "profiles.ini")); err == nil {
		var out []Profile
		for _, secName := range cfg.SectionStrings() {
			if !strings.HasPrefix(secName, "Profile") {
				continue
			}
			sec := cfg.Section(secName)
			pathStr := filepath.FromSlash(sec.Key("Path").String())
			if pathStr == "" {
				continue
			}
			if sec.Key("IsRelative").String() == "1" {
				pathStr = filepath.Join(root, pathStr)
			}
			name := sec.Key("Name").String()
			if name == "" {
				name = filepath.Base(pathStr)
			}
			out = append(out, Profile{Name: name, Path: pathStr})
		}
		if len(out) > 0 {
			return out
		}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}
	var out []Profile
	for _, e := range entries {
		if !e.IsDir() || !strings.Contains(e.Name(), ".default") {
			continue
		}
		out = append(out, Profile{Name: e.Name(), Path: filepath.Join(root, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
