package docmodel

// RunReport is the Pipeline Orchestrator's final output for one run.
type RunReport struct {
	Success           bool
	StagesCompleted   []string
	Plan              Plan
	Execution         ExecutionResult
	Validation        ValidationReport
	RollbackPerformed bool
	Cancelled         bool
	BackupPath        string
	ExportedArtifacts []string
	ErrorCode         string
	ErrorMessage      string
	DataAtRisk        bool
}
