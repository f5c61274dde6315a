package common

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// skipped directories never end up in the API image
var skipDirs = map[string]bool{
	".git":  true,
	"infra": true,
}

// SourceHash fingerprints every regular file under root so an unchanged
// tree yields the same image tag. Files are hashed in lexical path order.
func SourceHash(root string) (string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	sort.Strings(files)

	h := sha256.New()
	for _, file := range files {
		rel, err := filepath.Rel(root, file)
		if err != nil {
			return "", err
		}
		io.WriteString(h, filepath.ToSlash(rel))
		if err := copyFile(h, file); err != nil {
			return "", err
		}
	}

	// a 12 character prefix is plenty for an image tag
	return hex.EncodeToString(h.Sum(nil))[:12], nil
}

func copyFile(w io.Writer, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}
