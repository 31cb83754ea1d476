package registry

import (
	"io/fs"
	"path"
)

// Family describes one parameterized template family on disk: a parent
// directory holding per-resource subdirectories, each expected to contain
// the listed files.
type Family struct {
	Dir   string
	Files []string
}

// DiscoverOverrides scans the family directories of a template tree for
// resource-named subdirectories and returns the template paths found
// there. The generic placeholder directory is excluded; it is registered
// unconditionally as the fallback. Missing directories yield no results,
// never an error: overrides are optional.
func DiscoverOverrides(fsys fs.FS, families []Family) []string {
	var found []string
	for _, family := range families {
		entries, err := fs.ReadDir(fsys, family.Dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || entry.Name() == GenericKey {
				continue
			}
			for _, file := range family.Files {
				candidate := path.Join(family.Dir, entry.Name(), file)
				if _, err := fs.Stat(fsys, candidate); err != nil {
					continue
				}
				found = append(found, candidate)
			}
		}
	}
	return found
}

// DiscoverFileOverrides scans a directory whose overrides are standalone
// files rather than subdirectories (route modules). Every file except the
// generic one counts.
func DiscoverFileOverrides(fsys fs.FS, dir, genericFile string) []string {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil
	}
	var found []string
	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == genericFile {
			continue
		}
		found = append(found, path.Join(dir, entry.Name()))
	}
	return found
}
