package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"time"

	"github.com/maruel/natural"
	"go.uber.org/multierr"

	"cardgen/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates initialized empty reporter. When destination cannot be
// created report goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{entries: make(map[string]entry), file: f}, nil
}

type entryKind int

const (
	entryPath entryKind = iota
	entryData
	entryCopy
)

func (k entryKind) String() string {
	switch k {
	case entryData:
		return "data"
	case entryCopy:
		return "copy"
	default:
		return "path"
	}
}

type entry struct {
	kind     entryKind
	original string
	actual   string
	stamp    time.Time
	data     []byte
}

// Report accumulates everything necessary to troubleshoot single run: logs,
// configuration, source document, segmentation dumps and produced cards.
// NOTE: not to be used concurrently!
type Report struct {
	entries map[string]entry
	// temporary copies made by StoreCopy, removed on Close
	temps []string
	file  *os.File
}

// Close writes the archive and removes temporary copies. Nil report means
// no report has been requested, so all methods accept nil receiver.
func (r *Report) Close() error {
	if r == nil {
		return nil
	}
	var err error
	if r.file != nil {
		err = multierr.Combine(r.finalize(), r.file.Close())
	}
	for _, dir := range r.temps {
		err = multierr.Append(err, os.RemoveAll(dir))
	}
	r.temps = nil
	return err
}

// Name returns absolute name of the report archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// Store remembers path to file or directory, its content is read when report
// is closed. Used for logs which are still being written.
func (r *Report) Store(name, path string) {
	if r == nil {
		return
	}
	if old, exists := r.entries[name]; exists && old.original != path {
		panic(fmt.Sprintf("Attempt to overwrite file in the report for [%s]: was %s, now %s", name, old.original, path))
	}
	actual := path
	if p, err := filepath.Abs(path); err == nil {
		actual = p
	}
	r.entries[name] = entry{kind: entryPath, original: path, actual: actual}
}

// StoreData puts data into the report under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	if _, exists := r.entries[name]; exists {
		panic(fmt.Sprintf("Attempt to overwrite data in the report for [%s]", name))
	}
	r.entries[name] = entry{kind: entryData, data: data, stamp: time.Now()}
}

// StoreCopy makes a snapshot of file or directory at the time of the call.
// Top level directory entries listed in skip are left out (image cache in
// the output directory for example). Repeated names get timestamp suffix.
func (r *Report) StoreCopy(name, path string, skip ...string) error {
	if r == nil {
		return nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return err
	}

	e := entry{kind: entryCopy, original: path, stamp: time.Now()}
	if _, exists := r.entries[name]; exists {
		name = fmt.Sprintf("%s-%d", name, e.stamp.UnixNano())
	}

	dir, err := os.MkdirTemp("", misc.GetAppName()+"-r-")
	if err != nil {
		return err
	}
	r.temps = append(r.temps, dir)

	switch {
	case info.Mode().IsRegular():
		e.actual = filepath.Join(dir, filepath.Base(abs))
		err = copyFile(e.actual, abs, info.ModTime())
	case info.IsDir():
		e.actual = dir
		err = walkFiles(abs, skip, func(rel string, fi fs.FileInfo) error {
			return copyFile(filepath.Join(dir, rel), filepath.Join(abs, rel), fi.ModTime())
		})
	default:
		return fmt.Errorf("unable to copy '%s' to report: not a file or directory", path)
	}
	if err != nil {
		return err
	}
	r.entries[name] = e
	return nil
}

// walkFiles calls fn for every regular file under root with path relative to
// root.
func walkFiles(root string, skip []string, fn func(rel string, fi fs.FileInfo) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if rel != "." && slices.Contains(skip, rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || slices.Contains(skip, rel) {
			// links, sockets, etc.
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return fn(rel, fi)
	})
}

func copyFile(dst, src string, modTime time.Time) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, modTime, modTime)
}

func (r *Report) finalize() error {
	arc := zip.NewWriter(r.file)

	names, manifest := prepareManifest(r.entries)
	if err := saveFile(arc, "MANIFEST", time.Now(), bytes.NewReader(manifest)); err != nil {
		return err
	}

	for _, name := range names {
		e := r.entries[name]
		if e.kind == entryData {
			if err := saveFile(arc, name, e.stamp, bytes.NewReader(e.data)); err != nil {
				return err
			}
			continue
		}
		info, err := os.Stat(e.actual)
		if err != nil {
			// log files may never have been created
			continue
		}
		if info.IsDir() {
			err = saveDir(arc, name, e.actual)
		} else {
			err = savePath(arc, name, e.actual, info.ModTime())
		}
		if err != nil {
			return err
		}
	}
	return arc.Close()
}

func prepareManifest(entries map[string]entry) ([]string, []byte) {
	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))

	now := time.Now()
	buf := new(bytes.Buffer)
	for _, k := range keys {
		e := entries[k]
		stamp := e.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\t%s : %s\n", stamp.UTC().Format(time.UnixDate), e.kind, k, e.original, e.actual)
	}
	return keys, buf.Bytes()
}

func saveFile(dst *zip.Writer, name string, t time.Time, src io.Reader) error {
	w, err := dst.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: t})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}

func savePath(dst *zip.Writer, name, path string, t time.Time) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return saveFile(dst, name, t, f)
}

func saveDir(dst *zip.Writer, name, dir string) error {
	return walkFiles(dir, nil, func(rel string, fi fs.FileInfo) error {
		return savePath(dst, filepath.ToSlash(filepath.Join(name, rel)), filepath.Join(dir, rel), fi.ModTime())
	})
}
