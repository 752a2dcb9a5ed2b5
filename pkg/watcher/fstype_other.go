//go:build !linux

package watcher

// DetectFilesystemType only classifies Linux filesystems.
func DetectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
