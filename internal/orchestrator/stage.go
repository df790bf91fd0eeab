// Package orchestrator drives the full document pipeline — load,
// inspect, plan, execute, validate, export — over the lower-level
// packages, reporting progress per stage and rolling back to the
// pre-run backup if a stage fails after one has been taken.
package orchestrator

import "time"

// Stage identifies one step of the pipeline, in run order.
type Stage string

const (
	StageLoad     Stage = "load"
	StageInspect  Stage = "inspect"
	StagePlan     Stage = "plan"
	StageExecute  Stage = "execute"
	StageValidate Stage = "validate"
	StageExport   Stage = "export"
)

// stageOrder is the fixed sequence Run drives through.
var stageOrder = []Stage{StageLoad, StageInspect, StagePlan, StageExecute, StageValidate, StageExport}

// ProgressEvent is reported to every registered callback at the start
// and end of each stage; no intermediate progress is reported within a
// stage.
type ProgressEvent struct {
	Stage    Stage
	Fraction float64
	Message  string
	At       time.Time
}
