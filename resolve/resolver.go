// Package resolve turns image references found in documents into paths of
// local files, downloading remote images into content addressed cache.
package resolve

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"cardgen/config"
)

var (
	ErrNotFound    = errors.New("image not found")
	ErrFetch       = errors.New("unable to fetch image")
	ErrNotImage    = errors.New("not an image")
	ErrUnsupported = errors.New("unsupported image reference")
)

// Resolver maps image references of a single document to local files. It is
// not safe for concurrent use.
type Resolver struct {
	docDir   string
	root     string
	cacheDir string
	cfg      *config.ImagesConfig
	client   *http.Client
	log      *zap.Logger

	cacheReady bool
	seen       map[string]result
}

type result struct {
	path string
	err  error
}

// New creates resolver for document at docPath. Remote images are cached in
// cacheDir which is created on first download.
func New(docPath, cacheDir string, cfg *config.ImagesConfig, log *zap.Logger) *Resolver {
	docDir := filepath.Dir(docPath)
	if abs, err := filepath.Abs(docDir); err == nil {
		docDir = abs
	}
	r := &Resolver{
		docDir:   docDir,
		root:     FindProjectRoot(docDir, cfg.RootMarker),
		cacheDir: cacheDir,
		cfg:      cfg,
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		log:      log.Named("resolve"),
		seen:     make(map[string]result),
	}
	r.log.Debug("Resolver ready", zap.String("root", r.root), zap.String("cache", r.cacheDir))
	return r
}

// WithClient replaces HTTP client used for downloads.
func (r *Resolver) WithClient(c *http.Client) *Resolver {
	r.client = c
	return r
}

// Root returns discovered project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve returns path of local file for the reference. Results (including
// failures) are remembered for the lifetime of resolver.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if res, ok := r.seen[ref]; ok {
		return res.path, res.err
	}
	p, err := r.resolve(ctx, ref)
	if err != nil {
		err = fmt.Errorf("%q: %w", ref, err)
	}
	r.seen[ref] = result{path: p, err: err}
	return p, err
}

func (r *Resolver) resolve(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", ErrNotFound
	}

	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return r.resolveData(ref)
	case strings.HasPrefix(ref, "//"):
		return r.resolveRemote(ctx, "https:"+ref)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return r.resolveRemote(ctx, ref)
	case strings.HasPrefix(lower, "file://"):
		return r.resolveLocal(ref[len("file://"):])
	case strings.Contains(ref, "://"):
		return "", ErrUnsupported
	}
	return r.resolveLocal(ref)
}

func (r *Resolver) resolveLocal(ref string) (string, error) {
	if i := strings.IndexAny(ref, "?#"); i >= 0 {
		ref = ref[:i]
	}
	if p, err := url.PathUnescape(ref); err == nil {
		ref = p
	}
	if ref == "" {
		return "", ErrNotFound
	}

	var candidates []string
	rel := filepath.FromSlash(ref)
	if strings.HasPrefix(ref, "/") {
		candidates = append(candidates, filepath.Join(r.root, rel), rel)
	} else {
		candidates = append(candidates, filepath.Join(r.root, rel), filepath.Join(r.docDir, rel))
	}
	for _, c := range candidates {
		if isRegular(c) {
			return c, nil
		}
	}
	r.log.Debug("Local image not found", zap.Strings("tried", candidates))
	return "", ErrNotFound
}

func (r *Resolver) ensureCache() error {
	if r.cacheReady {
		return nil
	}
	if err := os.MkdirAll(r.cacheDir, 0755); err != nil {
		return fmt.Errorf("unable to create image cache: %w", err)
	}
	r.cacheReady = true
	return nil
}

func (r *Resolver) store(name string, data []byte) (string, error) {
	if err := r.ensureCache(); err != nil {
		return "", err
	}
	p := filepath.Join(r.cacheDir, name)
	if err := writeExclusive(p, data); err != nil {
		return "", fmt.Errorf("unable to cache image: %w", err)
	}
	return p, nil
}

func (r *Resolver) resolveRemote(ctx context.Context, ref string) (string, error) {
	name := CacheName(ref, r.cfg.Extensions, r.cfg.DefaultExtension)
	cached := filepath.Join(r.cacheDir, name)
	if isRegular(cached) {
		r.log.Debug("Using cached image", zap.String("ref", ref), zap.String("file", name))
		return cached, nil
	}

	data, err := r.fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	if !isImage(data) {
		return "", ErrNotImage
	}
	r.log.Debug("Downloaded image", zap.String("ref", ref), zap.String("file", name), zap.Int("size", len(data)))
	return r.store(name, data)
}

func (r *Resolver) fetch(ctx context.Context, ref string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if r.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", r.cfg.UserAgent)
	}
	if r.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+string(r.cfg.AuthToken))
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrFetch, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxDownloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	if int64(len(data)) > r.cfg.MaxDownloadSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrFetch, r.cfg.MaxDownloadSize)
	}
	return data, nil
}

// resolveData stores inline image from data URI in cache.
func (r *Resolver) resolveData(ref string) (string, error) {
	meta, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return "", ErrUnsupported
	}

	var (
		data []byte
		err  error
	)
	params := strings.Split(meta, ";")
	if params[len(params)-1] == "base64" {
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			// some generators drop padding
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
	} else {
		var s string
		s, err = url.PathUnescape(payload)
		data = []byte(s)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	if !isImage(data) {
		return "", ErrNotImage
	}

	ext := ""
	if exts, err := mime.ExtensionsByType(params[0]); err == nil && len(exts) > 0 {
		ext = normalizeExt(exts[0])
	}
	return r.store(dataName(ref, ext, r.cfg), data)
}

// dataName keeps hash based naming of CacheName, but takes extension from
// declared media type.
func dataName(ref, ext string, cfg *config.ImagesConfig) string {
	name := CacheName(ref, cfg.Extensions, cfg.DefaultExtension)
	if ext == "" || !slices.ContainsFunc(cfg.Extensions, func(a string) bool { return normalizeExt(a) == ext }) {
		return name
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + ext
}

// isImage detects raster images by signature, SVG by content.
func isImage(data []byte) bool {
	if filetype.IsImage(data) {
		return true
	}
	mt := mimetype.Detect(bytes.TrimSpace(data))
	for ; mt != nil; mt = mt.Parent() {
		if strings.HasPrefix(mt.String(), "image/") {
			return true
		}
	}
	return false
}
