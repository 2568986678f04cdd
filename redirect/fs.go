package redirect

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
)

// NewLocal returns the local filesystem rooted at root. Paths given to stages
// are relative to root.
func NewLocal(root string) billy.Filesystem {
	if root == "" {
		root = "/"
	}
	return osfs.New(root)
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() billy.Filesystem {
	return memfs.New()
}
