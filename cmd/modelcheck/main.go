package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"imfit-model/internal/app"
	"imfit-model/internal/domain"
	"imfit-model/internal/infrastructure"
)

func main() {
	settingsPath := flag.String("settings", "", "Path to settings YAML (optional)")
	inPath := flag.String("in", "", "Path to the model configuration file")
	outPath := flag.String("out", "", "Write the normalized model description to this file")
	selfCheck := flag.Bool("selfcheck", false, "Run a synthetic multi-start fit over the loaded model")
	flag.Parse()

	logger := initLogger("info")
	defer logger.Sync()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: modelcheck -in model.conf [-out normalized.conf] [-settings settings.yaml] [-selfcheck]")
		os.Exit(2)
	}

	settings := infrastructure.DefaultSettings()
	if *settingsPath != "" {
		settingsReader := infrastructure.NewYAMLSettingsReader(logger)
		loaded, err := settingsReader.ReadSettings(*settingsPath)
		if err != nil {
			logger.Fatal("Failed to read settings", zap.Error(err))
		}
		settings = loaded
	}

	// Rebuild the logger with the configured level and log file
	logger = initLogger(settings.LogLevel, settings.LogFile)

	modelReader := infrastructure.NewModelFileReader(logger)
	model, err := modelReader.ReadModel(*inPath)
	if err != nil {
		logger.Fatal("Failed to read model description", zap.Error(err))
	}

	logger.Info("Model description summary",
		zap.Strings("functions", model.FunctionTypes()),
		zap.Ints("set_indices", model.FunctionSetIndices()),
		zap.Int("parameters", len(model.ParameterList())))

	if *selfCheck {
		runSelfCheck(logger, settings, model)
	}

	if *outPath != "" {
		modelWriter := infrastructure.NewModelFileWriter(logger)
		if err := modelWriter.WriteModel(*outPath, model); err != nil {
			logger.Fatal("Failed to write model description", zap.Error(err))
		}
	}
}

// runSelfCheck fits the model against a synthetic parameter-space objective
// (squared distance to the loaded vector), exercising the whole
// flatten / optimize / write-back path without touching image data.
func runSelfCheck(logger *zap.Logger, settings *domain.Settings, model *domain.Model) {
	target := model.GetRawParameters()
	objective := func(x []float64) float64 {
		var sum float64
		for i, v := range x {
			d := v - target[i]
			sum += d * d
		}
		return sum
	}

	runner := app.NewFitRunner(logger, settings)
	report, err := runner.Run(model, objective)
	if err != nil {
		logger.Fatal("Self-check fit failed", zap.Error(err))
	}

	logger.Info("Self-check fit finished",
		zap.Float64("best", report.Best.Value),
		zap.Int("converged", report.Converged),
		zap.Float64("moved", report.Moved))
}

// initLogger initializes the logger with the specified level and log file name.
func initLogger(level string, logfileName ...string) *zap.Logger {
	config := zap.NewProductionConfig()

	switch level {
	case "debug":
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "warn":
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		config.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	outputPaths := []string{"stderr"}
	for _, item := range logfileName {
		if item != "" {
			outputPaths = append(outputPaths, item)
		}
	}

	config.OutputPaths = outputPaths
	config.ErrorOutputPaths = outputPaths
	config.EncoderConfig.TimeKey = "t"
	config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	config.DisableCaller = false

	logger, _ := config.Build()
	return logger
}
