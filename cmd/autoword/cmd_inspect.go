package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/antigravity-dev/autoword-go/internal/export"
	"github.com/antigravity-dev/autoword-go/internal/inspector"
)

var inspectVerbose bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Extract and print a document's annotations and structure without editing it",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectVerbose, "render", false, "Render the structure summary as styled Markdown")
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	driver, err := openDriver()
	if err != nil {
		return newExitCodeError(exitConfig, fmt.Sprintf("cannot inspect: %v", err))
	}

	baseCtx := cmd.Context()
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := context.WithTimeout(baseCtx, timeout)
	defer cancel()

	doc, err := driver.Open(ctx, path)
	if err != nil {
		return newExitCodeError(exitFailure, fmt.Sprintf("could not open %s: %v", path, err))
	}
	defer doc.Close(ctx)

	annotations, err := inspector.ExtractAnnotations(ctx, doc)
	if err != nil {
		return newExitCodeError(exitFailure, fmt.Sprintf("could not extract annotations: %v", err))
	}
	structure, err := inspector.ExtractStructure(ctx, doc)
	if err != nil {
		return newExitCodeError(exitFailure, fmt.Sprintf("could not extract structure: %v", err))
	}

	fmt.Printf("%s\n", path)
	fmt.Printf("  annotations: %d\n", len(annotations))
	for _, a := range annotations {
		fmt.Printf("    [%s] %s: %s\n", a.ID, a.Author, truncate(a.BodyText, 80))
	}
	fmt.Printf("  headings: %d, styles: %d, toc entries: %d, hyperlinks: %d\n",
		len(structure.Headings), len(structure.Styles), len(structure.TocEntries), len(structure.Hyperlinks))
	fmt.Printf("  pages: %d, words: %d\n", structure.PageCount, structure.WordCount)

	if inspectVerbose {
		md := fmt.Sprintf("# %s\n\n- Annotations: %d\n- Headings: %d\n- Styles: %d\n- TOC entries: %d\n- Hyperlinks: %d\n- Pages: %d\n- Words: %d\n",
			path, len(annotations), len(structure.Headings), len(structure.Styles), len(structure.TocEntries), len(structure.Hyperlinks), structure.PageCount, structure.WordCount)
		rendered, err := export.RenderVerbose(md)
		if err != nil {
			fmt.Printf("  (could not render: %v)\n", err)
		} else {
			fmt.Print(rendered)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
