// Package collect resolves an ordered list of filesystem input paths into
// an ordered, deduplicated set of (source, member-path) candidates, per
// spec.md §4.3.
//
// The directory walk is grounded on registry/storage/driver/walk.go's
// sorted depth-first walk discipline, adapted to a local os.ReadDir-based
// traversal since collection never crosses a storage-driver abstraction —
// inputs are always local paths (spec.md Non-goals: no network I/O).
package collect

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// ErrEmpty is returned when the input list has no entries.
var ErrEmpty = errors.New("collect: no input paths given")

// NonRegularError reports an input that is not a plain regular file (a
// symlink, socket, device, or FIFO), or one that could not be inspected
// because its Lstat, ReadDir, or entry Info call failed.
type NonRegularError struct {
	Path   string
	Reason string
}

func (e *NonRegularError) Error() string {
	return fmt.Sprintf("collect: %s is not a regular file: %s", e.Path, e.Reason)
}

// DuplicateError reports two or more candidates resolving to the same
// member path, including the reserved "manifest.json" path.
type DuplicateError struct {
	MemberPath string
	Sources    []string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("collect: member path %q claimed by multiple sources: %v", e.MemberPath, e.Sources)
}

// Candidate is one file resolved from the input list, paired with the
// member path it will occupy inside the pack.
type Candidate struct {
	Source     string
	MemberPath string
}

// Collect resolves inputs into the globally sorted candidate list described
// in spec.md §4.3. It does not check for collisions; call CheckCollisions
// on the result before copying any bytes (seal's mandated ordering:
// collect → collision-check → copy+hash).
func Collect(inputs []string) ([]Candidate, error) {
	if len(inputs) == 0 {
		return nil, ErrEmpty
	}

	var candidates []Candidate
	for _, in := range inputs {
		fi, err := os.Lstat(in)
		if err != nil {
			return nil, &NonRegularError{Path: in, Reason: err.Error()}
		}

		switch {
		case fi.Mode()&os.ModeSymlink != 0:
			return nil, &NonRegularError{Path: in, Reason: "symbolic link"}
		case fi.IsDir():
			dirCandidates, err := walkDir(in)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, dirCandidates...)
		case fi.Mode().IsRegular():
			candidates = append(candidates, Candidate{
				Source:     in,
				MemberPath: filepath.Base(in),
			})
		default:
			return nil, &NonRegularError{Path: in, Reason: "not a regular file"}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].MemberPath < candidates[j].MemberPath
	})
	return candidates, nil
}

// walkDir performs a sorted, depth-first walk of root, yielding one
// candidate per regular file found. Directory entries are sorted by
// filename at each level so the walk order is stable across platforms,
// mirroring doWalkFallback's discipline in the teacher's storage driver
// walk, here driven by os.ReadDir instead of a remote List/Stat pair.
func walkDir(root string) ([]Candidate, error) {
	base := filepath.Base(root)
	var out []Candidate

	var recurse func(dir, memberPrefix string) error
	recurse = func(dir, memberPrefix string) error {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return &NonRegularError{Path: dir, Reason: err.Error()}
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			fullPath := filepath.Join(dir, entry.Name())
			memberPath := path.Join(memberPrefix, entry.Name())

			info, err := entry.Info()
			if err != nil {
				return &NonRegularError{Path: fullPath, Reason: err.Error()}
			}

			switch {
			case info.Mode()&os.ModeSymlink != 0:
				return &NonRegularError{Path: fullPath, Reason: "symbolic link"}
			case info.IsDir():
				if err := recurse(fullPath, memberPath); err != nil {
					return err
				}
			case info.Mode().IsRegular():
				out = append(out, Candidate{Source: fullPath, MemberPath: memberPath})
			default:
				return &NonRegularError{Path: fullPath, Reason: "not a regular file"}
			}
		}
		return nil
	}

	if err := recurse(root, base); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckCollisions verifies the multiset of member paths in candidates is a
// set, and that none of them claims the reserved "manifest.json" path.
func CheckCollisions(candidates []Candidate) error {
	bySource := make(map[string][]string, len(candidates))
	for _, c := range candidates {
		bySource[c.MemberPath] = append(bySource[c.MemberPath], c.Source)
	}

	if sources, ok := bySource["manifest.json"]; ok {
		return &DuplicateError{MemberPath: "manifest.json", Sources: sources}
	}

	// Deterministic order: report the first collision by member-path.
	paths := make([]string, 0, len(bySource))
	for p := range bySource {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		if len(bySource[p]) > 1 {
			return &DuplicateError{MemberPath: p, Sources: bySource[p]}
		}
	}
	return nil
}
