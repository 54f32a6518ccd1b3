package infrastructure

import (
	"go.uber.org/zap"

	"imfit-model/internal/domain"
	"imfit-model/internal/modelfile"
)

type ModelFileReader struct {
	logger *zap.Logger
}

func NewModelFileReader(logger *zap.Logger) *ModelFileReader {
	return &ModelFileReader{logger: logger}
}

// ReadModel parses a model description from an imfit configuration file.
func (r *ModelFileReader) ReadModel(path string) (*domain.Model, error) {
	model, err := modelfile.ParseFile(path)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Model description loaded",
		zap.String("file", path),
		zap.Int("options", len(model.Options)),
		zap.Int("function_sets", len(model.FunctionSets())),
		zap.Int("functions", len(model.FunctionTypes())),
		zap.Int("parameters", len(model.ParameterList())))

	return model, nil
}
