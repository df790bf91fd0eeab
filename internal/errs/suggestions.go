package errs

// suggestionKeys maps each Code to a fixed error-code string (shown to
// operators under --verbose) and the suggestion list attached to
// every Error built with that Code.
var suggestionKeys = map[Code]string{
	DocumentError:    "DOC_001",
	DriverError:      "DOC_002",
	LLMTransport:     "LLM_001",
	LLMAuth:          "LLM_002",
	LLMFormat:        "LLM_003",
	LLMCancelled:     "LLM_004",
	PlanValidation:   "PLAN_001",
	FormatProtection: "FMT_001",
	TaskExecution:    "EXEC_001",
	Configuration:    "CFG_001",
	Cancelled:        "CANCEL_001",
}

var suggestions = map[Code][]string{
	DocumentError: {
		"confirm the document path exists and is readable",
		"confirm the file is not open and locked by another process",
	},
	DriverError: {
		"retry the operation once",
		"confirm the document driver is installed and reachable",
	},
	LLMTransport: {
		"check network connectivity to the LLM endpoint",
		"confirm the configured base URL is reachable",
	},
	LLMAuth: {
		"set AUTOWORD_API_KEY (or AUTOWORD_API_KEY_SECONDARY) to a valid key",
		"confirm the key has not expired or been revoked",
	},
	LLMFormat: {
		"the LLM response did not conform to the requested JSON schema after retries",
		"lower the prompt's annotation count or increase max_retries",
	},
	LLMCancelled: {
		"the run was cancelled before the LLM call completed",
	},
	PlanValidation: {
		"the LLM's task plan failed schema validation",
		"inspect plan_<timestamp>.json for the raw response",
	},
	FormatProtection: {
		"a task attempted an unauthorized format change and was blocked",
		"add source_annotation_id to the task or remove the format instruction",
	},
	TaskExecution: {
		"the task's locator did not resolve or its mutation was rejected",
		"confirm the annotation's anchor text still exists in the document",
	},
	Configuration: {
		"set the required environment variables and re-run `autoword check`",
	},
	Cancelled: {
		"the run was cancelled cooperatively at a stage or task boundary",
	},
}

// SuggestionsFor returns the fixed suggestion list for code.
func SuggestionsFor(code Code) []string {
	return suggestions[code]
}

// ErrorCodeString returns the fixed display code (e.g. "DOC_001") for
// code, used in CLI --verbose output.
func ErrorCodeString(code Code) string {
	if s, ok := suggestionKeys[code]; ok {
		return s
	}
	return string(code)
}
