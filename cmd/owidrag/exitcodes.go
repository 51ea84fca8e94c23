package main

// Exit codes used across commands.
const (
	ExitSuccess       = 0 // Success
	ExitError         = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError   = 2 // Configuration error (unknown dataset, bad settings)
	ExitDataError     = 3 // Data error (dataset files unreadable) / Ollama not available
	ExitModelNotFound = 4 // Embedding model not found in Ollama
)
