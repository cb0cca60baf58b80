// Package main exposes the translation sync as a Lambda function, for
// pipelines that build inside AWS and mount the web app's source on EFS.
package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/pricofy/loco-sync/internal/config"
	"github.com/pricofy/loco-sync/internal/domain"
	"github.com/pricofy/loco-sync/internal/handler"
	"github.com/pricofy/loco-sync/internal/logging"
)

// srcDirEnv names the mounted project root. Without it the default
// destination lands under the writable /tmp.
const srcDirEnv = "LOCO_SRC_DIR"

func main() {
	lambda.Start(handleRequest)
}

func handleRequest(ctx context.Context, event json.RawMessage) (interface{}, error) {
	// Warmup detection comes before anything touches the network.
	if warmup, ok := IsWarmupEvent(event); ok {
		return HandleWarmup(ctx, warmup)
	}

	var req domain.SyncRequest
	if len(event) > 0 {
		if err := json.Unmarshal(event, &req); err != nil {
			return nil, err
		}
	}

	return runSync(ctx, req), nil
}

func runSync(ctx context.Context, req domain.SyncRequest, opts ...handler.Option) *domain.SyncResponse {
	logger := logging.New(os.Stderr, os.Getenv("LOCO_DEBUG") != "")

	cfg, err := config.Load(config.Options{})
	if err != nil {
		return &domain.SyncResponse{Error: err.Error()}
	}
	applyOverrides(cfg, req)

	srcDir := os.Getenv(srcDirEnv)
	if srcDir == "" {
		srcDir = os.TempDir()
	}

	opts = append([]handler.Option{handler.WithSrcDir(srcDir), handler.WithLogger(logger)}, opts...)
	res, err := handler.New(*cfg, opts...).Sync(ctx)
	resp := &domain.SyncResponse{Result: *res}
	if err != nil {
		logger.Error("sync failed", "error", err)
		resp.Error = err.Error()
	}
	return resp
}

// applyOverrides copies the event's set fields onto cfg.
func applyOverrides(cfg *config.Config, req domain.SyncRequest) {
	if req.Locale != "" {
		cfg.Locale = req.Locale
	}
	if len(req.Filter) > 0 {
		cfg.Filter = req.Filter
	}
	if req.Fallback != "" {
		cfg.Fallback = req.Fallback
	}
}
