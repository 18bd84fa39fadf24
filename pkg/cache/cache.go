// Package cache implements an optional mmap-backed disk cache for a
// generated grayscale noise stack, so repeated runs with identical
// configuration and seed can skip regeneration (§5: "implementations MAY
// offer a disk-backed cache of the grayscale stack between runs").
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/dvgjettinggrid/jetgridgen/pkg/noisestack"
)

type header struct {
	Magic   uint64
	Version uint32
	T       uint32
	N       uint32
	_       uint32 // pad to a multiple of 8 bytes
}

const (
	headerSize = uint64(unsafe.Sizeof(header{}))
	// magicValue is an arbitrary ASCII-derived tag ("JGRDNOIS"), the same
	// validate-on-open convention the teacher's shm ring uses.
	magicValue = 0x4A4752444E4F4953
)

// Cache is an mmap-backed scratch file holding one generated grayscale
// noise stack.
type Cache struct {
	f    *os.File
	data []byte
	hdr  *header
}

// Key derives a stable cache filename from an arbitrary canonical string
// describing the generating configuration (the caller is responsible for
// making it canonical — e.g. a fixed field order).
func Key(canonical string) string {
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])[:16]
}

// Path joins a cache directory and key into a cache file path.
func Path(dir, key string) string {
	return filepath.Join(dir, key+".noisecache")
}

// Create allocates a new cache file sized for a T x N x N float32 stack
// and mmaps it.
func Create(path string, t, n int) (*Cache, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("cache: create %s: %w", path, err)
	}
	size := int64(headerSize) + int64(t)*int64(n)*int64(n)*4
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("cache: truncate: %w", err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cache: mmap: %w", err)
	}
	c := &Cache{f: f, data: data}
	c.hdr = (*header)(unsafe.Pointer(&data[0]))
	c.hdr.Magic = magicValue
	c.hdr.Version = 1
	c.hdr.T = uint32(t)
	c.hdr.N = uint32(n)
	return c, nil
}

// Open mmaps an existing cache file and validates its header magic.
func Open(path string) (*Cache, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("cache: mmap: %w", err)
	}
	c := &Cache{f: f, data: data}
	c.hdr = (*header)(unsafe.Pointer(&data[0]))
	if c.hdr.Magic != magicValue {
		c.Close()
		return nil, fmt.Errorf("cache: %s: bad magic", path)
	}
	return c, nil
}

// Exists reports whether a cache file is present at path without mapping it.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Shape reports the cached stack's dimensions.
func (c *Cache) Shape() (t, n int) {
	return int(c.hdr.T), int(c.hdr.N)
}

// Stack returns a noisestack.Stack backed directly by the mapped memory;
// mutating it writes through to the file.
func (c *Cache) Stack() *noisestack.Stack {
	t, n := c.Shape()
	floats := unsafe.Slice((*float32)(unsafe.Pointer(&c.data[headerSize])), t*n*n)
	return &noisestack.Stack{T: t, H: n, W: n, Data: floats}
}

// Close unmaps and closes the backing file.
func (c *Cache) Close() error {
	if c.data != nil {
		unix.Munmap(c.data)
		c.data = nil
	}
	return c.f.Close()
}

// Remove deletes a cache file if present; absence is not an error.
func Remove(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
