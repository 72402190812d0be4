package pin

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	defaultShardPrefixLen = 2
	defaultDirPerm        = 0o700
)

// config holds configuration for the disk store.
type config struct {
	shardPrefixLen int
	dirPerm        os.FileMode
}

// Option configures a Disk store.
type Option func(*config)

// WithShardPrefixLen sets the number of hex characters used for sharding.
// Use 0 to disable sharding. Defaults to 2.
func WithShardPrefixLen(n int) Option {
	return func(c *config) {
		c.shardPrefixLen = n
	}
}

// WithDirPerm sets the directory permissions used for store directories.
func WithDirPerm(mode os.FileMode) Option {
	return func(c *config) {
		c.dirPerm = mode
	}
}

// Disk stores records as JSON files on disk.
//
// Keys are hashed with SHA256 to create safe filenames, since repository
// paths contain separators. Writes go through a temp file and a rename so a
// reader never observes a partial record.
type Disk struct {
	dir            string
	shardPrefixLen int
	dirPerm        os.FileMode
}

// NewDisk creates a disk-backed store rooted at dir.
func NewDisk(dir string, opts ...Option) (*Disk, error) {
	if dir == "" {
		return nil, errors.New("pin: store dir is empty")
	}
	cfg := config{
		shardPrefixLen: defaultShardPrefixLen,
		dirPerm:        defaultDirPerm,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.shardPrefixLen < 0 {
		return nil, errors.New("pin: shard prefix length must be >= 0")
	}
	if err := os.MkdirAll(dir, cfg.dirPerm); err != nil {
		return nil, fmt.Errorf("pin: create store dir: %w", err)
	}
	return &Disk{
		dir:            dir,
		shardPrefixLen: cfg.shardPrefixLen,
		dirPerm:        cfg.dirPerm,
	}, nil
}

// Dir returns the store root.
func (d *Disk) Dir() string {
	return d.dir
}

// Get implements Store.
//
// Entries that fail to decode or validate are deleted and reported as
// missing, so a corrupted pin never steers a reset.
func (d *Disk) Get(key string) (Record, bool) {
	path := d.path(key)
	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return Record{}, false
	}
	defer root.Close()

	data, err := root.ReadFile(path)
	if err != nil {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil || rec.Validate() != nil {
		_ = root.Remove(path)
		return Record{}, false
	}
	return rec, true
}

// Put implements Store.
func (d *Disk) Put(key string, rec Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("pin: encode record: %w", err)
	}

	path := d.path(key)
	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return fmt.Errorf("pin: open store root: %w", err)
	}
	defer root.Close()

	dir := filepath.Dir(path)
	if dir != "." {
		if err := root.MkdirAll(dir, d.dirPerm); err != nil {
			return fmt.Errorf("pin: create shard dir: %w", err)
		}
	}

	tmp, tmpPath, err := createTemp(root, dir, "pin-")
	if err != nil {
		return fmt.Errorf("pin: create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = root.Remove(tmpPath)
		return fmt.Errorf("pin: write record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = root.Remove(tmpPath)
		return fmt.Errorf("pin: close record: %w", err)
	}
	if err := root.Rename(tmpPath, path); err != nil {
		_ = root.Remove(tmpPath)
		return fmt.Errorf("pin: rename record: %w", err)
	}
	return nil
}

// Delete implements Store.
func (d *Disk) Delete(key string) error {
	root, err := os.OpenRoot(d.dir)
	if err != nil {
		return fmt.Errorf("pin: open store root: %w", err)
	}
	defer root.Close()

	if err := root.Remove(d.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("pin: delete record: %w", err)
	}
	return nil
}

func (d *Disk) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	hexHash := hex.EncodeToString(sum[:])
	if d.shardPrefixLen <= 0 {
		return hexHash + ".json"
	}
	prefixLen := min(d.shardPrefixLen, len(hexHash))
	return filepath.Join(hexHash[:prefixLen], hexHash+".json")
}

func createTemp(root *os.Root, dir, prefix string) (*os.File, string, error) {
	if dir == "" {
		dir = "."
	}

	for tries := 0; tries < 10000; tries++ {
		var randBytes [8]byte
		if _, err := rand.Read(randBytes[:]); err != nil {
			return nil, "", err
		}
		name := prefix + hex.EncodeToString(randBytes[:]) + ".tmp"
		path := filepath.Join(dir, name)
		f, err := root.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return nil, "", err
		}
		return f, path, nil
	}

	return nil, "", errors.New("failed to create temp file")
}
