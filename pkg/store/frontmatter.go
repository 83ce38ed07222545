// Package store provides the engine's persistence collaborators: a
// file-backed store (markdown items with YAML frontmatter, YAML side
// files for sessions, questions and settings) and an in-memory store for
// tests and embedding.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ParseFrontmatter splits a document into its YAML frontmatter map and
// body. Content without a frontmatter block returns an empty map and the
// content unchanged.
func ParseFrontmatter(content []byte) (map[string]interface{}, []byte, error) {
	fm := map[string]interface{}{}
	meta, body, ok := splitFrontmatter(content)
	if !ok {
		return fm, content, nil
	}
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return nil, nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
		if fm == nil {
			fm = map[string]interface{}{}
		}
	}
	return fm, body, nil
}

// splitFrontmatter separates the raw frontmatter bytes from the body.
// The block is delimited by "---" lines at the top of the document.
func splitFrontmatter(content []byte) (meta, body []byte, ok bool) {
	open := []byte("---\n")
	if !bytes.HasPrefix(content, open) {
		return nil, content, false
	}
	rest := content[len(open):]

	// Empty frontmatter block.
	if bytes.HasPrefix(rest, []byte("---\n")) {
		return nil, rest[4:], true
	}
	if bytes.Equal(rest, []byte("---")) {
		return nil, nil, true
	}

	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, content, false
	}
	meta = rest[:idx+1]
	tail := rest[idx+4:]
	if bytes.HasPrefix(tail, []byte("\n")) {
		tail = tail[1:]
	}
	return meta, tail, true
}

// writeAtomic writes content via a temp file and rename so readers never
// observe a partial file.
func writeAtomic(path string, content []byte) error {
	var perm os.FileMode = 0644
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode()
	}

	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if !success {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	if err = f.Chmod(perm); err != nil {
		return err
	}
	if _, err = f.Write(content); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	if err = os.Rename(f.Name(), path); err != nil {
		return err
	}

	success = true
	return nil
}
