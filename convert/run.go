// Package convert implements card generation command.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"

	"cardgen/common"
	"cardgen/content"
	"cardgen/paginate"
	"cardgen/render"
	"cardgen/resolve"
	"cardgen/segment"
	"cardgen/state"
)

const defaultDestination = "output"

var (
	ErrNoSource   = errors.New("input document not found")
	ErrNoSections = errors.New("no headings with content found")
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return fmt.Errorf("%w: no input source has been specified", ErrNoSource)
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		dst = defaultDestination
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if cmd.IsSet("format") {
		format, err := common.ParseImageFormat(cmd.String("format"))
		if err != nil {
			log.Warn("Unknown output format requested, using configured one", zap.Stringer("format", env.Cfg.Card.Output.Format), zap.Error(err))
		} else {
			env.Cfg.Card.Output.Format = format
		}
	}

	env.Scheme = cmd.String("scheme")
	env.Translit = cmd.Bool("translit") || env.Cfg.Document.FileNameTransliterate

	// HTML documents are decoded according to BOM or meta tags unless told
	// otherwise
	if cp := cmd.String("charset"); len(cp) > 0 {
		if env.CodePage, err = htmlindex.Get(cp); err != nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := htmlindex.Name(env.CodePage)
			log.Debug("Forcing document encoding", zap.String("charset", n))
		}
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst),
		zap.Stringer("format", env.Cfg.Card.Output.Format), zap.Stringer("run", env.RunID))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	_, err = Generate(ctx, src, dst)
	return err
}

// Generate turns document at src into card images in dst directory and
// returns names of produced files. Cards which failed to render do not stop
// processing, their errors are combined into returned error.
func Generate(ctx context.Context, src, dst string) (files []string, rerr error) {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("convert")

	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("%w (%s): %w", ErrNoSource, src, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%w (%s): not a regular file", ErrNoSource, src)
	}

	doc, err := prepareDocument(ctx, src, log)
	if err != nil {
		return nil, err
	}

	images := resolve.New(src, filepath.Join(dst, env.Cfg.Document.Images.CacheDir), &env.Cfg.Document.Images, log)
	sections := segment.New(doc, images, &env.Cfg.Document, log).Sections(ctx)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%w (%s), looking for %v", ErrNoSections, src, env.Cfg.Document.HeadingTags)
	}
	env.Rpt.StoreData("dumps/sections.txt", []byte(content.DumpSections(sections)))

	style, err := render.NewStyle(&env.Cfg.Card, env.Scheme)
	if err != nil {
		return nil, err
	}
	cards := paginate.New(paginate.NewPolicy(&env.Cfg.Pagination, style.Metrics), log).All(sections)
	env.Rpt.StoreData("dumps/cards.txt", []byte(content.DumpCards(cards)))
	log.Info("Document segmented", zap.Int("sections", len(sections)), zap.Int("cards", len(cards)))

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	fonts, err := render.LoadFonts(&env.Cfg.Card.Fonts, log)
	if err != nil {
		return nil, err
	}
	defer func() {
		rerr = multierr.Append(rerr, fonts.Close())
	}()

	r := render.New(style, fonts, log)
	ext := env.Cfg.Card.Output.Format.Ext()
	for i, card := range cards {
		if err := ctx.Err(); err != nil {
			return files, multierr.Append(rerr, err)
		}
		img, err := r.Render(card, i, len(cards))
		if err != nil {
			rerr = multierr.Append(rerr, fmt.Errorf("card %d (%s): %w", i+1, card.Title, err))
			continue
		}
		name := filepath.Join(dst, FileName(i+1, card.Title, ext, env.Translit))
		if err := r.Save(img, name); err != nil {
			rerr = multierr.Append(rerr, fmt.Errorf("card %d (%s): %w", i+1, card.Title, err))
			continue
		}
		files = append(files, name)
		log.Info("Card ready", zap.Int("card", i+1), zap.Int("total", len(cards)),
			zap.String("scheme", r.Scheme(i).Name), zap.String("file", filepath.Base(name)))
	}
	if n := r.Fallbacks(); n > 0 {
		log.Debug("Some text was measured approximately", zap.String("font", fonts.Source), zap.Int("measurements", n))
	}

	if env.Rpt != nil && len(files) > 0 {
		if err := env.Rpt.StoreCopy("output", dst, env.Cfg.Document.Images.CacheDir); err != nil {
			log.Warn("Unable to store produced cards in debug report", zap.Error(err))
		}
	}
	return files, rerr
}
