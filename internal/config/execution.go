package config

// ExecutionConfig configures the Executor and Pipeline Orchestrator.
type ExecutionConfig struct {
	// StrictTemplates, when true, rejects a task naming an unrecognized
	// apply_template target instead of falling back to the "Normal"
	// paragraph style and logging the substitution. Default off: see
	// DESIGN.md's Open Question decision on unknown-template fallback.
	StrictTemplates bool `yaml:"strict_templates" json:"strict_templates,omitempty"`

	// DefaultTimeout is a per-task timeout setting, read back through
	// Config.GetExecutionTimeout. The Executor does not apply it.
	DefaultTimeout string `yaml:"default_timeout" json:"default_timeout,omitempty"`

	// WorkingDirectory is the directory exported artifacts are written
	// to. Backups are not written here: Snapshot Store places them
	// beside the document.
	WorkingDirectory string `yaml:"working_directory" json:"working_directory,omitempty"`

	// Concurrency bounds how many documents the Pipeline Orchestrator
	// processes at once when given multiple inputs.
	Concurrency int `yaml:"concurrency" json:"concurrency,omitempty"`

	// MaxBackups is a backup retention count, the kind of value
	// Snapshot Store's PruneBackups takes. Nothing in the run passes it
	// there, so backups are not pruned automatically.
	MaxBackups int `yaml:"max_backups" json:"max_backups,omitempty"`

	// AutoRollback, when true, has the Pipeline Orchestrator restore the
	// pre-run backup automatically on a stage failure after a backup
	// already exists, rather than leaving the document in a possibly
	// partially-mutated state for the operator to resolve manually.
	AutoRollback bool `yaml:"auto_rollback" json:"auto_rollback,omitempty"`
}
