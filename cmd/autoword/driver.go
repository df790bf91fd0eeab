package main

import (
	"github.com/antigravity-dev/autoword-go/internal/docdriver"
	"github.com/antigravity-dev/autoword-go/internal/errs"
)

// driverFactory builds the document-driver implementation this binary
// runs against. The concrete office-suite automation driver is a
// consumed external collaborator, not part of this module; a
// deployment wires one in by setting driverFactory from an init()
// in a build-tagged file before main() registers commands. Left nil,
// every command that needs a driver fails fast with Configuration so
// `autoword check` reports it rather than panicking deep in a run.
var driverFactory func() (docdriver.Driver, error)

func openDriver() (docdriver.Driver, error) {
	if driverFactory == nil {
		return nil, errs.New(errs.Configuration, "no document driver configured for this build")
	}
	return driverFactory()
}
