package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"cardgen/common"
	"cardgen/config"
	"cardgen/state"
)

// setupTestEnv creates a test environment with proper context and logger
func setupTestEnv(t *testing.T) (context.Context, *state.LocalEnv) {
	t.Helper()
	logger := zaptest.NewLogger(t, zaptest.WrapOptions(zap.AddCaller(), zap.AddCallerSkip(1)))
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	// built-in fonts keep results independent of the host
	cfg.Card.Fonts.Paths = nil
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Log = logger
	env.Cfg = cfg
	return ctx, env
}

const samplePost = `<!DOCTYPE html>
<html><head><title>Weekend in Lisbon</title></head>
<body><article>
<p>Two days, three neighborhoods and far too many custard tarts for any reasonable person.</p>
<h2>Getting there</h2>
<p>Take the airport metro, it is cheap and quick.</p>
<h2>Where to eat</h2>
<p>Try the little place next to the tram stop.</p>
<img src="/assets/tarts.png">
<img src="/assets/missing.png">
<h3>Nothing here</h3>
</article></body></html>`

// writeProject lays out <root>/assets/tarts.png and <root>/posts/lisbon.html
func writeProject(t *testing.T, post string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "assets"), 0755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	for y := range 200 {
		for x := range 300 {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "assets", "tarts.png"), buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(root, "posts", "lisbon.html")
	if err := os.MkdirAll(filepath.Dir(src), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte(post), 0644); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestGenerate(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src := writeProject(t, samplePost)
	dst := filepath.Join(t.TempDir(), "out")

	files, err := Generate(ctx, src, dst)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []string{"1_Weekend_in_Lisbon.jpg", "2_Getting_there.jpg", "3_Where_to_eat.jpg"}
	if len(files) != len(want) {
		t.Fatalf("got files %v, want %v", files, want)
	}
	for i, f := range files {
		if filepath.Base(f) != want[i] {
			t.Errorf("file %d = %q, want %q", i, filepath.Base(f), want[i])
		}
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read card: %v", err)
		}
		img, err := jpeg.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("decode card %s: %v", f, err)
		}
		if img.Bounds().Dx() != 1080 || img.Bounds().Dy() != 1080 {
			t.Errorf("card %s has size %v", f, img.Bounds())
		}
	}
}

func TestGenerate_PNGAndTransliteration(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Cfg.Card.Output.Format = common.ImageFormatPng
	env.Translit = true
	src := writeProject(t, `<html><body><h2>Привет мир</h2><p>текст</p></body></html>`)
	dst := t.TempDir()

	files, err := Generate(ctx, src, dst)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0]) != "1_privet_mir.png" {
		t.Fatalf("files = %v", files)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("card is not png: %v", err)
	}
}

func TestGenerate_NoSource(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	dst := filepath.Join(t.TempDir(), "out")

	for _, src := range []string{filepath.Join(t.TempDir(), "missing.html"), t.TempDir()} {
		if _, err := Generate(ctx, src, dst); !errors.Is(err, ErrNoSource) {
			t.Errorf("Generate(%s) error = %v, want ErrNoSource", src, err)
		}
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("output directory created for failed run")
	}
}

func TestGenerate_NoSections(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	src := writeProject(t, `<html><body><h1>Only title</h1><p>Some text.</p><h2>Empty</h2></body></html>`)
	dst := filepath.Join(t.TempDir(), "out")

	_, err := Generate(ctx, src, dst)
	if !errors.Is(err, ErrNoSections) {
		t.Fatalf("Generate() error = %v, want ErrNoSections", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("output directory created for failed run")
	}
}

func TestGenerate_Canceled(t *testing.T) {
	ctx, _ := setupTestEnv(t)
	ctx, cancel := context.WithCancel(ctx)
	cancel()

	src := writeProject(t, samplePost)
	if _, err := Generate(ctx, src, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerate_Report(t *testing.T) {
	ctx, env := setupTestEnv(t)
	rc := config.ReporterConfig{Destination: filepath.Join(t.TempDir(), "report.zip")}
	rpt, err := rc.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	src := writeProject(t, samplePost)
	if _, err := Generate(ctx, src, filepath.Join(t.TempDir(), "out")); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(rc.Destination)
	if err != nil {
		t.Fatalf("open report: %v", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	all := strings.Join(names, "\n")
	for _, want := range []string{"dumps/sections.txt", "dumps/cards.txt", "source/lisbon.html", "output/3_Where_to_eat.jpg"} {
		if !strings.Contains(all, want) {
			t.Errorf("report has no %s, entries:\n%s", want, all)
		}
	}
}
