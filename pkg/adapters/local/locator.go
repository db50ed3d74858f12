package local

import (
	"io/fs"
	"os"

	"github.com/aretw0/cartridge/pkg/domain"
)

// DefaultCandidates are the storage roots probed when none are configured,
// in priority order: removable media first, then a working-directory fallback.
var DefaultCandidates = []string{
	"/media/usb/tracks",
	"/mnt/usb/tracks",
	"/run/media/tracks",
	"tracks",
}

// StatFunc reports file information for a path. It matches os.Stat.
type StatFunc func(name string) (fs.FileInfo, error)

// Locate returns the first candidate that exists as a directory, scanning in order.
// It never fails: any stat error counts as "does not exist".
func Locate(candidates []string) (string, bool) {
	return LocateWith(os.Stat, candidates)
}

// LocateWith is Locate with an explicit stat function.
// A nil stat function behaves as an environment without filesystem access.
func LocateWith(stat StatFunc, candidates []string) (string, bool) {
	if stat == nil {
		return "", false
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		info, err := stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Resolve locates a storage root. When none is mounted it returns
// domain.DefaultRemotePath with mounted=false; that path is only meant for
// building request URLs and is not assumed to exist.
func Resolve(candidates []string) (root string, mounted bool) {
	if root, ok := Locate(candidates); ok {
		return root, true
	}
	return domain.DefaultRemotePath, false
}
