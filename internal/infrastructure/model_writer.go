package infrastructure

import (
	"bufio"
	"os"

	"go.uber.org/zap"

	"imfit-model/internal/domain"
	"imfit-model/internal/modelfile"
)

type ModelFileWriter struct {
	logger *zap.Logger
}

func NewModelFileWriter(logger *zap.Logger) *ModelFileWriter {
	return &ModelFileWriter{logger: logger}
}

// WriteModel emits the model description to a configuration file.
func (w *ModelFileWriter) WriteModel(path string, model *domain.Model) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if err := modelfile.Write(writer, model); err != nil {
		return err
	}
	if err := writer.Flush(); err != nil {
		return err
	}

	w.logger.Info("Model description written", zap.String("file", path))
	return nil
}
