package resolve

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/url"
	"os"
	"path"
	"slices"
	"strings"
)

// normalizeExt lowercases extension and folds jpeg into jpg.
func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpeg" {
		return "jpg"
	}
	return ext
}

// CacheName returns file name for cached copy of remote reference: hex
// encoded SHA-256 of the reference and extension taken from reference path
// when it is allowed, def otherwise.
func CacheName(ref string, allowed []string, def string) string {
	sum := sha256.Sum256([]byte(ref))

	ext := ""
	if u, err := url.Parse(ref); err == nil {
		ext = normalizeExt(path.Ext(u.Path))
	}
	ok := slices.ContainsFunc(allowed, func(a string) bool { return normalizeExt(a) == ext })
	if ext == "" || !ok {
		ext = normalizeExt(def)
	}
	return hex.EncodeToString(sum[:]) + "." + ext
}

// writeExclusive creates file with data unless it already exists. Existing
// file is not an error: another run (or reference) has put it there first.
func writeExclusive(name string, data []byte) error {
	f, err := os.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(name)
		return err
	}
	return f.Close()
}

func isRegular(name string) bool {
	info, err := os.Stat(name)
	return err == nil && info.Mode().IsRegular()
}
