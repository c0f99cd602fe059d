package vfs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zip"

	"github.com/duckos/duckos/backend/internal/shared/paths"
	"github.com/duckos/duckos/backend/internal/shared/types"
)

// ExportZip serializes the subtree at path into a zip archive. Folders
// become directory entries, files carry their content. The archive uses
// paths relative to the exported node.
func (s *Service) ExportZip(ctx context.Context, path string) ([]byte, error) {
	done := s.track("export_zip")

	tree, err := s.GetTree(ctx, path)
	if err != nil {
		return nil, doneErr(done, err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	if err := writeZipEntries(w, tree, ""); err != nil {
		w.Close()
		return nil, doneErr(done, err)
	}
	if err := w.Close(); err != nil {
		return nil, doneErr(done, fmt.Errorf("failed to finalize archive: %w", err))
	}
	done(nil)
	return buf.Bytes(), nil
}

func writeZipEntries(w *zip.Writer, node *types.TreeNode, prefix string) error {
	name := node.Name
	if name == "" {
		name = "." // exporting the root itself
	}
	entryPath := name
	if prefix != "" {
		entryPath = prefix + "/" + name
	}

	if node.IsFolder() {
		if entryPath != "." {
			if _, err := w.Create(entryPath + "/"); err != nil {
				return fmt.Errorf("failed to add folder %s: %w", entryPath, err)
			}
		} else {
			entryPath = ""
		}
		for _, child := range node.Children {
			childPrefix := entryPath
			if err := writeZipEntries(w, child, childPrefix); err != nil {
				return err
			}
		}
		return nil
	}

	f, err := w.Create(entryPath)
	if err != nil {
		return fmt.Errorf("failed to add file %s: %w", entryPath, err)
	}
	if _, err := f.Write([]byte(node.Content)); err != nil {
		return fmt.Errorf("failed to write file %s: %w", entryPath, err)
	}
	return nil
}

// ImportZip unpacks a zip archive into the folder at destPath, creating
// intermediate folders as needed. Existing files are overwritten
// (write-or-create), existing folders are reused.
func (s *Service) ImportZip(ctx context.Context, destPath string, archive []byte) error {
	done := s.track("import_zip")

	dest, err := s.resolve(ctx, destPath)
	if err != nil {
		return doneErr(done, err)
	}
	if !dest.IsFolder() {
		return doneErr(done, fmt.Errorf("%w: %s is not a folder", ErrTypeMismatch, paths.Normalize(destPath)))
	}

	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return doneErr(done, fmt.Errorf("%w: not a zip archive", ErrInvalidOperation))
	}

	base := paths.Normalize(destPath)
	for _, entry := range r.File {
		entryName := strings.Trim(entry.Name, "/")
		if entryName == "" || entryName == "." {
			continue
		}
		if strings.Contains(entryName, "..") {
			return doneErr(done, fmt.Errorf("%w: archive entry %q escapes the destination", ErrInvalidOperation, entry.Name))
		}

		target := base
		for _, seg := range paths.Segments(entryName) {
			target = paths.Join(target, seg)
		}

		if entry.FileInfo().IsDir() {
			if err := s.ensureFolder(ctx, target); err != nil {
				return doneErr(done, err)
			}
			continue
		}

		parent, _ := paths.SplitParent(target)
		if err := s.ensureFolder(ctx, parent); err != nil {
			return doneErr(done, err)
		}

		rc, err := entry.Open()
		if err != nil {
			return doneErr(done, fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err))
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return doneErr(done, fmt.Errorf("failed to read archive entry %s: %w", entry.Name, err))
		}

		if _, err := s.WriteFile(ctx, target, string(content)); err != nil {
			return doneErr(done, err)
		}
	}
	return done(nil)
}

// ensureFolder creates the folder chain down to path, reusing folders
// that already exist.
func (s *Service) ensureFolder(ctx context.Context, path string) error {
	normalized := paths.Normalize(path)
	if normalized == paths.Root {
		return nil
	}

	current := paths.Root
	for _, seg := range paths.Segments(normalized) {
		current = paths.Join(current, seg)
		_, err := s.CreateFolder(ctx, current)
		if err != nil && !errors.Is(err, ErrAlreadyExists) {
			return err
		}
	}
	return nil
}
