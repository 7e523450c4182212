package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"creditrisk/predictor/internal/inference"
	"creditrisk/predictor/internal/logger"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

const (
	assetsDirFlag  = "assets-dir"
	modelFileFlag  = "model-file"
	encoderFmtFlag = "encoder-file-format"
	goodClassFlag  = "good-class"
	formatFlag     = "format"
	debugFlag      = "debug"
)

var (
	version = "v0.0.1-default"
	commit  = ""
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "riskctl",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Usage:   "Score credit applicants against the shipped risk model",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    assetsDirFlag,
				Usage:   "Directory holding the model and encoder files",
				Value:   "./assets",
				Sources: cli.EnvVars("ASSETS_DIR"),
			},
			&cli.StringFlag{
				Name:    modelFileFlag,
				Usage:   "Model file name, relative to the assets directory",
				Value:   "extra_trees_credit_model.json",
				Sources: cli.EnvVars("MODEL_FILE"),
			},
			&cli.StringFlag{
				Name:    encoderFmtFlag,
				Usage:   "Encoder file name pattern, %s is replaced by the field name",
				Value:   inference.DefaultEncoderFileFormat,
				Sources: cli.EnvVars("ENCODER_FILE_FORMAT"),
			},
			&cli.IntFlag{
				Name:    goodClassFlag,
				Usage:   "Class id that means a good credit risk",
				Value:   inference.DefaultGoodClassID,
				Sources: cli.EnvVars("GOOD_CLASS_ID"),
			},
			&cli.StringFlag{
				Name:  formatFlag,
				Usage: "Output format [json, yaml]",
				Value: formatJSON,
			},
			&cli.BoolFlag{
				Name:  debugFlag,
				Usage: "Prints verbose logs (optional, default: false)",
			},
		},
		Commands: []*cli.Command{
			predictCommand(),
			inspectCommand(),
		},
	}
}

func newLogger(cmd *cli.Command) (*zap.Logger, error) {
	level := "warn"
	if cmd.Bool(debugFlag) {
		level = "debug"
	}
	return logger.New(level, "text")
}

func loadAssets(cmd *cli.Command, log *zap.Logger) (*inference.Assets, error) {
	cfg := inference.AssetConfig{
		Dir:               cmd.String(assetsDirFlag),
		ModelFile:         cmd.String(modelFileFlag),
		EncoderFileFormat: cmd.String(encoderFmtFlag),
		GoodClassID:       cmd.Int(goodClassFlag),
	}

	log.Debug("loading assets", zap.String("dir", cfg.Dir), zap.String("model", cfg.ModelPath()))

	assets, err := inference.LoadAssets(cfg)
	if err != nil {
		return nil, fmt.Errorf("loading assets: %w", err)
	}
	return assets, nil
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatYAML, "yml":
		e := yaml.NewEncoder(w)
		defer e.Close()
		return e.Encode(v)
	case formatJSON:
		e := json.NewEncoder(w)
		e.SetIndent("", "  ")
		return e.Encode(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func output(cmd *cli.Command, v any) error {
	return encode(cmd.Root().Writer, cmd.String(formatFlag), v)
}

func inspect(_ context.Context, cmd *cli.Command) error {
	log, err := newLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	assets, err := loadAssets(cmd, log)
	if err != nil {
		return err
	}
	return output(cmd, assets.Describe())
}

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:   "inspect",
		Usage:  "Print the loaded model classes, feature order and encoder vocabularies",
		Action: inspect,
	}
}
