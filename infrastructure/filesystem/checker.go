package filesystem

import (
	"os"

	"github.com/nipunbatra/trim-convert/domain/video"
)

// Checker implements video.FileChecker using the os package.
type Checker struct{}

// NewChecker creates a new filesystem checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Exists returns true if the file exists.
func (c *Checker) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Size returns the file size in bytes, or 0 when the file is missing.
func (c *Checker) Size(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

// Ensure Checker implements video.FileChecker
var _ video.FileChecker = (*Checker)(nil)
