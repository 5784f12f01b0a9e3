package service

import (
	"context"
	"time"

	"anonymizer/internal/blob"
	"anonymizer/internal/config"
	"anonymizer/internal/detection"
	"anonymizer/internal/dto"
	"anonymizer/internal/logger"
	"anonymizer/internal/service/ai"
	"anonymizer/internal/service/storage"

	"github.com/google/uuid"
)

// Notifier receives an Event after every invocation.
type Notifier interface {
	Publish(event dto.Event)
}

// Anonymizer runs the fetch, detect, blur and store pipeline for one request at a time.
type Anonymizer struct {
	config    *config.Config
	scratch   *storage.ScratchService
	loader    ai.Loader
	logger    *logger.Logger
	notifiers []Notifier
}

// NewAnonymizer wires the pipeline. The loader is called on every invocation.
func NewAnonymizer(config *config.Config, logger *logger.Logger, scratch *storage.ScratchService, loader ai.Loader, notifiers ...Notifier) *Anonymizer {
	return &Anonymizer{
		config:    config,
		scratch:   scratch,
		loader:    loader,
		logger:    logger,
		notifiers: notifiers,
	}
}

// outcome collects what an invocation did, for events.
type outcome struct {
	detections int
	blurred    int
}

// Handle runs one invocation and always returns a structured response.
func (a *Anonymizer) Handle(ctx context.Context, req dto.Request) dto.Response {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	a.logger.Debug("[%s] Request: %+v", req.ID, req)

	var out outcome
	err := a.run(ctx, req, &out)
	response := BuildResponse(req, err)

	if err != nil {
		a.logger.Error("[%s] %v", req.ID, err)
	}
	a.logger.Info("[%s] Finished with status %s: %s", req.ID, response.StatusCode, response.Message())

	event := dto.Event{
		ID:         req.ID,
		Request:    req,
		Response:   response,
		Detections: out.detections,
		Blurred:    out.blurred,
		Time:       time.Now(),
	}
	for _, n := range a.notifiers {
		n.Publish(event)
	}

	return response
}

func (a *Anonymizer) run(ctx context.Context, req dto.Request, out *outcome) error {
	src, dst, err := Validate(req)
	if err != nil {
		return err
	}

	a.logger.Info("[%s] Anonymizing image: %s", req.ID, src)
	a.logger.Info("[%s] Anonymized image will be stored in: %s", req.ID, dst)

	ws, err := a.scratch.Open(uuid.NewString())
	if err != nil {
		return &ProcessingError{Stage: "scratch", Err: err}
	}
	defer func() {
		if err := ws.Close(); err != nil {
			a.logger.Warning("[%s] Failed to remove scratch directory %s: %v", req.ID, ws.Dir, err)
		}
	}()

	original, err := a.scratch.Fetch(ctx, ws, src)
	if err != nil {
		return blob.Wrap("download", src, err)
	}
	a.logger.Info("[%s] Successfully downloaded image: %s", req.ID, src)

	filtered := ws.FilteredPath(dst)
	if err := a.anonymize(req, original, filtered, out); err != nil {
		return err
	}

	if err := a.scratch.Store(ctx, filtered, dst); err != nil {
		return blob.Wrap("upload", dst, err)
	}
	a.logger.Info("[%s] Successfully uploaded image to: %s", req.ID, dst)

	return nil
}

// anonymize decodes inPath, blurs the sensitive detections and encodes the result to outPath.
func (a *Anonymizer) anonymize(req dto.Request, inPath, outPath string, out *outcome) error {
	params := a.config.Detection

	img, err := ai.ReadImage(inPath)
	if err != nil {
		return &ProcessingError{Stage: "decode", Err: err}
	}
	defer img.Close()

	detector, err := a.loader.Load(a.artifacts(req))
	if err != nil {
		return &ProcessingError{Stage: "model load", Err: err}
	}
	defer detector.Close()

	candidates, err := detector.Detect(img, params)
	if err != nil {
		return &ProcessingError{Stage: "inference", Err: err}
	}

	detections := ai.Suppress(candidates, detector.Classes, params)
	out.detections = len(detections)
	a.logger.Info("[%s] %d candidates, %d detections after suppression", req.ID, len(candidates), len(detections))
	for _, d := range detections {
		a.logger.Debug("[%s] Detected %s", req.ID, d)
	}

	out.blurred, err = ai.Anonymize(&img, detections, params)
	if err != nil {
		return &ProcessingError{Stage: "blur", Err: err}
	}

	if params.Annotate {
		colors := detection.NewColorTable(len(detector.Classes))
		if err := ai.Annotate(&img, detections, colors, params); err != nil {
			return &ProcessingError{Stage: "annotate", Err: err}
		}
	}

	if err := ai.WriteImage(outPath, img); err != nil {
		return &ProcessingError{Stage: "encode", Err: err}
	}
	return nil
}

// artifacts returns the configured model files with any request overrides applied.
func (a *Anonymizer) artifacts(req dto.Request) ai.Artifacts {
	artifacts := ai.Artifacts{
		Weights:  a.config.ModelPath,
		Topology: a.config.ConfigPath,
		Classes:  a.config.ClassesPath,
	}
	if req.Weights != "" {
		artifacts.Weights = req.Weights
	}
	if req.Config != "" {
		artifacts.Topology = req.Config
	}
	if req.Classes != "" {
		artifacts.Classes = req.Classes
	}
	return artifacts
}
