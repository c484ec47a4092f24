package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/turbokube/storemeta/pkg/annotations"
	"github.com/turbokube/storemeta/pkg/catalog"
	"github.com/turbokube/storemeta/pkg/fsusage"
	"github.com/turbokube/storemeta/pkg/publish"
	"github.com/turbokube/storemeta/pkg/registry"
	"github.com/turbokube/storemeta/pkg/schema"
	"github.com/turbokube/storemeta/pkg/tracker"
	"github.com/turbokube/storemeta/pkg/workflow"
	"go.uber.org/zap"
)

// publish command flag variables
var (
	configPath   string
	workflowPath string
	fileOutput   string
)

func runPublish(args []string) error {
	logger := newLogger()
	defer logger.Sync()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	if version {
		fmt.Println(BUILD)
		return nil
	}

	config, err := schema.ParseConfig(configPath)
	if err != nil {
		zap.L().Error("config", zap.String("path", configPath), zap.Error(err))
		return err
	}
	data, err := workflow.Load(schema.Fs, workflowPath)
	if err != nil {
		zap.L().Error("workflow data", zap.String("path", workflowPath), zap.Error(err))
		return err
	}

	registryConfig, err := registry.New(config.Registry)
	if err != nil {
		zap.L().Error("registry", zap.Error(err))
		return err
	}

	var sampler *fsusage.Sampler
	if config.Filesystem.Root != "" {
		sampler, err = fsusage.NewSampler(schema.Fs, config.Filesystem.Root, config.Filesystem.Ignore)
		if err != nil {
			zap.L().Error("filesystem sampler", zap.Error(err))
			return err
		}
	}

	assembler := annotations.NewAssembler(annotations.AssemblerConfig{
		Fs:        schema.Fs,
		Data:      data,
		Resolver:  &catalog.RemoteResolver{Config: registryConfig},
		Sampler:   sampler,
		Whitelist: config.Koji.Whitelist,
	})

	publisher := publish.New(data, assembler, tracker.NewHTTPTracker(config.Tracker))
	result, err := publisher.Publish(context.Background())
	if err != nil {
		zap.L().Error("publish", zap.Error(err))
		return err
	}
	zap.L().Info("published",
		zap.String("pipelineRun", data.UserParams.PipelineRunName),
		zap.Int("annotations", len(result.Annotations)),
		zap.Int("labels", len(result.Labels)),
	)

	if fileOutput != "" {
		f, err := os.Create(fileOutput)
		if err != nil {
			zap.L().Error("file output", zap.String("path", fileOutput), zap.Error(err))
			return err
		}
		defer f.Close()
		j, err := json.Marshal(result)
		if err != nil {
			return err
		}
		if _, err := f.Write(j); err != nil {
			return err
		}
	}

	return nil
}
