package storage

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/dtnitsch/quotes-etl/models"
)

// FileSink writes a finished run to disk:
//
//	csv   <prefix>.csv
//	json  <prefix>.json and <prefix>_report.json
//	yaml  <prefix>_report.yaml
//
// Other formats are ignored.
type FileSink struct {
	storage *Storage
	formats []string
	logger  *zap.Logger
	written []string
}

func NewFileSink(s *Storage, formats []string, logger *zap.Logger) *FileSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSink{storage: s, formats: formats, logger: logger}
}

// Files lists the paths written by the last Persist call.
func (f *FileSink) Files() []string {
	return f.written
}

func (f *FileSink) Persist(ctx context.Context, out models.RunOutput) error {
	f.written = nil
	prefix := out.OutputPrefix
	if prefix == "" {
		prefix = models.DefaultPrefix
	}

	for _, format := range f.formats {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "persist cancelled")
		}

		var err error
		switch format {
		case models.FormatCSV:
			err = f.write(prefix+".csv", func() ([]byte, error) { return EncodeCSV(out.Quotes) })
		case models.FormatJSON:
			err = f.write(prefix+".json", func() ([]byte, error) {
				return EncodeJSON(Document{Quotes: nonNil(out.Quotes), Report: out.Report})
			})
			if err == nil {
				err = f.write(prefix+"_report.json", func() ([]byte, error) { return EncodeJSON(out.Report) })
			}
		case models.FormatYAML:
			err = f.write(prefix+"_report.yaml", func() ([]byte, error) { return EncodeYAML(out.Report) })
		default:
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *FileSink) write(name string, encode func() ([]byte, error)) error {
	data, err := encode()
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	path := f.storage.Path(name)
	if f.storage.HasFile(name) {
		f.logger.Debug("overwriting file", zap.String("path", path))
	}
	if err := f.storage.SaveFile(name, data); err != nil {
		return err
	}
	f.written = append(f.written, path)

	stats, err := f.storage.GetFileStats(name)
	if err != nil {
		return err
	}
	f.logger.Info("wrote file", zap.String("path", path), zap.Int64("bytes", stats.SizeBytes))
	return nil
}

func nonNil(quotes []models.Quote) []models.Quote {
	if quotes == nil {
		return []models.Quote{}
	}
	return quotes
}
