package convert

import (
	"context"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"cardgen/article"
	"cardgen/state"
)

// prepareDocument loads source document honoring forced character set and
// saves a copy of it into debug report.
func prepareDocument(ctx context.Context, src string, log *zap.Logger) (*article.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	var opts []article.LoadOption
	if env.CodePage != nil {
		opts = append(opts, article.WithEncoding(env.CodePage))
	}

	doc, err := article.Load(src, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load document (%s): %w", src, err)
	}
	log.Debug("Document loaded", zap.String("file", src), zap.Int("elements", doc.Len()))

	if env.Rpt != nil {
		if err := env.Rpt.StoreCopy(fmt.Sprintf("source/%s", filepath.Base(src)), src); err != nil {
			log.Warn("Unable to store document copy in debug report", zap.Error(err))
		}
	}
	return doc, nil
}
