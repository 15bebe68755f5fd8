package config

import "github.com/feichai0017/pdftext/pkg/logger"

// LoggerOptions translates the log section into logger options. Extra
// options are applied last.
func (l LogConfig) LoggerOptions(extra ...logger.Option) []logger.Option {
	opts := []logger.Option{
		logger.WithLevel(l.Level),
		logger.WithEncoding(l.Encoding),
		logger.WithOutputPaths(l.OutputPaths),
		logger.WithErrorPaths(l.ErrorPaths),
		logger.WithRotation(l.MaxSize, l.MaxBackups, l.MaxAge, l.Compress),
		logger.WithDevelopment(l.Development),
	}
	return append(opts, extra...)
}
