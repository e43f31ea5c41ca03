package patcher

import (
	"os"
	"regexp"
	"strings"

	"github.com/sokinpui/socpatch/model"
)

// filePathRegex extracts the file path from a '+++ b/...' line.
var filePathRegex = regexp.MustCompile(`(?m)^\+\+\+ b/(?P<path>.*?)(\s|$)`)

// ExtractPathsFromPatch returns the files a patch touches, in order of
// appearance and without duplicates.
func ExtractPathsFromPatch(content string) []string {
	var paths []string
	seen := make(map[string]bool)
	for _, match := range filePathRegex.FindAllStringSubmatch(content, -1) {
		path := strings.TrimSpace(match[1])
		if path == "" || seen[path] {
			continue
		}
		seen[path] = true
		paths = append(paths, path)
	}
	return paths
}

// countHunks counts '@@' hunk headers outside of the file headers.
func countHunks(content string) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "@@") {
			count++
		}
	}
	return count
}

// Inspect reads the patch files and describes what each one touches.
// Unreadable files are listed without details.
func Inspect(patches []string) []model.PatchInfo {
	infos := make([]model.PatchInfo, 0, len(patches))
	for _, p := range patches {
		info := model.PatchInfo{Path: p}
		if data, err := os.ReadFile(p); err == nil {
			content := strings.ReplaceAll(string(data), "\r\n", "\n")
			info.Files = ExtractPathsFromPatch(content)
			info.Hunks = countHunks(content)
		}
		infos = append(infos, info)
	}
	return infos
}
