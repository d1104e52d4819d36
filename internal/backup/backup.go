// Package backup snapshots the hyprsupreme configuration tree into
// tar.gz archives and restores them. Archives are named by ULID so
// listings sort chronologically, and each archive carries a sha256
// sidecar that restore verifies before unpacking.
package backup

import (
	"archive/tar"
	"compress/gzip"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oklog/ulid/v2"
)

const (
	archiveSuffix  = ".tar.gz"
	checksumSuffix = ".sha256"
)

// ErrNotFound is returned when a backup id does not exist.
var ErrNotFound = errors.New("backup not found")

// ErrChecksumMismatch is returned when an archive fails verification.
var ErrChecksumMismatch = errors.New("backup checksum mismatch")

// Info describes one stored backup.
type Info struct {
	ID        string
	Label     string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// HumanSize formats the archive size for display.
func (i Info) HumanSize() string {
	return humanize.Bytes(uint64(i.Size))
}

// Manager creates, lists, and restores backups in a single directory.
type Manager struct {
	dir string
}

// NewManager creates a manager storing archives under dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// Create archives sourceDir and returns the new backup. The label is
// embedded in the filename after the ULID, sanitized to a safe subset.
func (m *Manager) Create(sourceDir, label string) (*Info, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	id := ulid.Make().String()
	name := id
	if label = sanitizeLabel(label); label != "" {
		name += "-" + label
	}
	path := filepath.Join(m.dir, name+archiveSuffix)

	if err := writeArchive(path, sourceDir); err != nil {
		os.Remove(path)
		return nil, err
	}

	sum, err := fileChecksum(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	if err := os.WriteFile(path+checksumSuffix, []byte(sum+"\n"), 0644); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write checksum: %w", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	info := &Info{ID: id, Label: label, Path: path, Size: fi.Size(), CreatedAt: fi.ModTime()}
	slog.Info("backup created", "id", id, "size", info.HumanSize())
	return info, nil
}

// List returns all backups, newest first.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var infos []Info
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), archiveSuffix) {
			continue
		}
		base := strings.TrimSuffix(e.Name(), archiveSuffix)
		id, label, _ := strings.Cut(base, "-")
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			ID:        id,
			Label:     label,
			Path:      filepath.Join(m.dir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: fi.ModTime(),
		})
	}

	// ULIDs sort lexicographically by creation time.
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID > infos[j].ID })
	return infos, nil
}

// Find resolves a backup by full or prefix id.
func (m *Manager) Find(id string) (*Info, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.ID == id || (len(id) >= 4 && strings.HasPrefix(info.ID, id)) {
			return &info, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Restore verifies and unpacks a backup into targetDir.
func (m *Manager) Restore(id, targetDir string) error {
	info, err := m.Find(id)
	if err != nil {
		return err
	}

	wantSum, err := os.ReadFile(info.Path + checksumSuffix)
	if err != nil {
		return fmt.Errorf("read checksum: %w", err)
	}
	gotSum, err := fileChecksum(info.Path)
	if err != nil {
		return err
	}
	if gotSum != strings.TrimSpace(string(wantSum)) {
		return fmt.Errorf("%w: %s", ErrChecksumMismatch, info.ID)
	}

	if err := extractArchive(info.Path, targetDir); err != nil {
		return err
	}
	slog.Info("backup restored", "id", info.ID, "target", targetDir)
	return nil
}

// Delete removes a backup and its checksum file.
func (m *Manager) Delete(id string) error {
	info, err := m.Find(id)
	if err != nil {
		return err
	}
	if err := os.Remove(info.Path); err != nil {
		return err
	}
	os.Remove(info.Path + checksumSuffix)
	return nil
}

func writeArchive(path, sourceDir string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	err = filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}
		// Symlinks and other specials are skipped; config trees are
		// plain files and directories.
		if !fi.Mode().IsRegular() && !fi.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(fi, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if fi.IsDir() {
			return nil
		}

		src, err := os.Open(p)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("archive %s: %w", sourceDir, err)
	}

	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}

func extractArchive(path, targetDir string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("read archive: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read archive entry: %w", err)
		}

		dest, err := safeJoin(targetDir, hdr.Name)
		if err != nil {
			return err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(dest, fs.FileMode(hdr.Mode)); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
				return err
			}
			out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fs.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(out, tr); err != nil {
				out.Close()
				return err
			}
			if err := out.Close(); err != nil {
				return err
			}
		}
	}
}

// safeJoin rejects entry names that would escape the target directory.
func safeJoin(targetDir, name string) (string, error) {
	dest := filepath.Join(targetDir, filepath.FromSlash(name))
	if dest != targetDir && !strings.HasPrefix(dest, targetDir+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %q escapes target directory", name)
	}
	return dest, nil
}

func fileChecksum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizeLabel(label string) string {
	var b strings.Builder
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	return b.String()
}
