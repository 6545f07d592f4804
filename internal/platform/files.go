package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// File permissions
const (
	DefaultDirPermissions = 0755
)

// Remote layout constants
const (
	ThumbnailDir = "thumbnails"
)

// Image extensions the gallery accepts
var (
	SupportedImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif"}
)

// IsSupportedImage reports whether the path has a supported image extension.
// The check is case insensitive.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedImageExtensions {
		if ext == supported {
			return true
		}
	}
	return false
}

// ListImages returns the supported image files directly inside dir, sorted by
// name. Subdirectories are not descended into.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var images []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if IsSupportedImage(entry.Name()) {
			images = append(images, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(images)
	return images, nil
}

// EnsureDir creates the directory if it does not exist
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, DefaultDirPermissions); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// RemoteName converts a local file path into the repository file name. Spaces
// are replaced so generated gallery URLs stay clean.
func RemoteName(localPath string) string {
	name := filepath.Base(localPath)
	return strings.ReplaceAll(name, " ", "_")
}

// ThumbnailPath returns the repository path of the thumbnail that pairs with
// the given remote file name.
func ThumbnailPath(remoteName string) string {
	return ThumbnailDir + "/" + remoteName
}
