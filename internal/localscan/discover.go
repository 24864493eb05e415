package localscan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// AlbumDirs walks root and returns every directory holding an album: a
// directory with audio files of its own or with "CD N"/"Disc N"
// subdirectories. Disc subdirectories belong to their parent and are not
// returned separately.
func (b *Builder) AlbumDirs(root string) ([]string, error) {
	var albums []string
	if err := b.walkAlbums(root, &albums); err != nil {
		return nil, err
	}
	sort.Strings(albums)
	return albums, nil
}

func (b *Builder) walkAlbums(dir string, albums *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %s: %w", dir, err)
	}
	hasAudio := false
	var children []string
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			if b.IsAudio(name) {
				hasAudio = true
			}
			continue
		}
		if name == b.cueDoneDir {
			continue
		}
		path := filepath.Join(dir, name)
		if _, isDisc := discFromDir(name); isDisc {
			ok, err := b.containsAudio(path)
			if err != nil {
				return err
			}
			if ok {
				hasAudio = true
				continue
			}
		}
		children = append(children, path)
	}
	if hasAudio {
		*albums = append(*albums, dir)
	}
	for _, child := range children {
		if err := b.walkAlbums(child, albums); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) containsAudio(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, fmt.Errorf("read dir %s: %w", dir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() && b.IsAudio(entry.Name()) {
			return true, nil
		}
	}
	return false, nil
}
