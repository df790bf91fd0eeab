package planner

import (
	"context"
	"time"

	"github.com/antigravity-dev/autoword-go/internal/docmodel"
	"github.com/antigravity-dev/autoword-go/internal/errs"
	"github.com/antigravity-dev/autoword-go/internal/llmclient"
	"github.com/antigravity-dev/autoword-go/internal/logging"
	"github.com/antigravity-dev/autoword-go/internal/promptbuild"
)

// MaxTokens bounds a single LLM call's combined prompt size before
// promptbuild.Split is asked to chunk the document.
const MaxTokens = 100000

// GeneratePlan runs the full Planner pipeline for one document: build
// the prompt (chunking if the document is too large for one call),
// call the LLM per chunk, parse and merge its output, apply Gate L2,
// assign risk, and topologically sort the result into a Plan.
func GeneratePlan(ctx context.Context, client llmclient.Client, documentPath string, structure docmodel.Structure, annotations []docmodel.Annotation) (docmodel.PlanningResult, error) {
	log := logging.Get(logging.CategoryPlan)
	start := time.Now()

	schemaJSON, err := promptbuild.DefaultSchemaJSON()
	if err != nil {
		return docmodel.PlanningResult{}, errs.Wrap(errs.PlanValidation, "could not render task schema", err)
	}

	chunks := promptbuild.Split(structure, annotations, schemaJSON, MaxTokens)
	log.Info("planning %d chunk(s) for %s", len(chunks), documentPath)

	annotationIDs := make(map[string]bool, len(annotations))
	for _, a := range annotations {
		annotationIDs[a.ID] = true
	}

	var allRaw []rawTask
	var llmElapsed time.Duration

	for i, chunk := range chunks {
		userPrompt := promptbuild.BuildUserPrompt(chunk.Structure, chunk.Annotations, schemaJSON)

		llmStart := time.Now()
		resp, err := client.Complete(ctx, llmclient.Request{SystemPrompt: promptbuild.SystemPrompt, UserPrompt: userPrompt})
		llmElapsed += time.Since(llmStart)
		if err != nil {
			return docmodel.PlanningResult{}, err
		}

		salvaged := llmclient.SalvageJSON(resp.RawText)
		if salvaged == "" {
			return docmodel.PlanningResult{}, errs.New(errs.LLMFormat, "no JSON object found in LLM response")
		}

		raw, err := ParseTasks(salvaged)
		if err != nil {
			return docmodel.PlanningResult{}, err
		}
		log.Info("chunk %d/%d: %d raw task(s)", i+1, len(chunks), len(raw))
		allRaw = MergeChunks(allRaw, raw)
	}

	authorized, gateSkipped := FilterUnauthorized(allRaw)
	tasks, convertSkipped := ConvertToTasks(authorized, annotationIDs)
	sorted, warnings := ResolveDependencies(tasks)

	skipped := append(gateSkipped, convertSkipped...)

	plan := docmodel.Plan{
		Tasks:        sorted,
		DocumentPath: documentPath,
		CreatedAt:    time.Now(),
	}

	return docmodel.PlanningResult{
		Plan:            plan,
		RawCount:        len(allRaw),
		FilteredCount:   len(sorted),
		Skipped:         skipped,
		Warnings:        warnings,
		LLMElapsed:      llmElapsed,
		PlanningElapsed: time.Since(start),
	}, nil
}

// MergeChunks concatenates raw task lists from successive chunks,
// de-duplicating by id (a later chunk never overrides an earlier
// chunk's task with the same id; the first occurrence wins).
func MergeChunks(acc []rawTask, next []rawTask) []rawTask {
	seen := make(map[string]bool, len(acc))
	for _, t := range acc {
		if t.ID != "" {
			seen[t.ID] = true
		}
	}
	for _, t := range next {
		if t.ID != "" && seen[t.ID] {
			continue
		}
		acc = append(acc, t)
		if t.ID != "" {
			seen[t.ID] = true
		}
	}
	return acc
}
