package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/antigravity-dev/autoword-go/internal/docdriver"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("could not create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestRunCheckReportsMissingKeyAndDriver(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()
	apiKey = ""
	savedFactory := driverFactory
	driverFactory = nil
	defer func() { driverFactory = savedFactory }()

	var err error
	output := captureOutput(t, func() {
		err = runCheck(&cobra.Command{}, nil)
	})

	if err == nil {
		t.Fatalf("expected runCheck to report failure when no API key or driver is configured")
	}
	ece, ok := err.(*exitCodeError)
	if !ok {
		t.Fatalf("expected *exitCodeError, got %T", err)
	}
	if ece.code != exitConfig {
		t.Fatalf("expected exitConfig, got %d", ece.code)
	}
	if !strings.Contains(output, "MISSING") {
		t.Fatalf("expected output to call out the missing key/driver, got: %s", output)
	}
}

func TestRunCheckPassesWhenKeyAndDriverPresent(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()
	apiKey = "sk-test"
	savedFactory := driverFactory
	driverFactory = func() (docdriver.Driver, error) { return docdriver.NewFakeDriver(), nil }
	defer func() { driverFactory = savedFactory; apiKey = "" }()

	var err error
	output := captureOutput(t, func() {
		err = runCheck(&cobra.Command{}, nil)
	})
	if err != nil {
		t.Fatalf("runCheck returned error: %v", err)
	}
	if !strings.Contains(output, "environment check passed") {
		t.Fatalf("expected pass message, got: %s", output)
	}
}

func TestRunInspectPrintsAnnotationsAndStructure(t *testing.T) {
	logger = zap.NewNop()
	workspace = t.TempDir()
	timeout = 10 * time.Second
	savedFactory := driverFactory

	driver := docdriver.NewFakeDriver()
	doc := docdriver.NewFakeDocument("report.docx")
	doc.AddParagraph("Heading 1", "Introduction")
	doc.AddParagraph("Normal", "Body text here.")
	doc.AddAnnotation(docdriver.RawAnnotation{ID: "a1", Author: "reviewer", BodyText: "tighten this up"})
	driver.Register("report.docx", doc)
	driverFactory = func() (docdriver.Driver, error) { return driver, nil }
	defer func() { driverFactory = savedFactory }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	var err error
	output := captureOutput(t, func() {
		err = runInspect(cmd, []string{"report.docx"})
	})
	if err != nil {
		t.Fatalf("runInspect returned error: %v", err)
	}
	if !strings.Contains(output, "a1") || !strings.Contains(output, "reviewer") {
		t.Fatalf("expected annotation summary in output, got: %s", output)
	}
	if !strings.Contains(output, "headings: 1") {
		t.Fatalf("expected heading count in output, got: %s", output)
	}
}

func TestRunInspectFailsFastWithoutDriver(t *testing.T) {
	logger = zap.NewNop()
	savedFactory := driverFactory
	driverFactory = nil
	defer func() { driverFactory = savedFactory }()

	err := runInspect(&cobra.Command{}, []string{"report.docx"})
	if err == nil {
		t.Fatalf("expected an error when no driver is configured")
	}
	ece, ok := err.(*exitCodeError)
	if !ok || ece.code != exitConfig {
		t.Fatalf("expected exitConfig *exitCodeError, got %v", err)
	}
}

func TestExitFromError(t *testing.T) {
	if got := exitFromError(newExitCodeError(exitFailure, "x")); got != exitFailure {
		t.Fatalf("expected exitFailure, got %d", got)
	}
	if got := exitFromError(io.EOF); got != exitConfig {
		t.Fatalf("expected a plain error to map to exitConfig, got %d", got)
	}
}
