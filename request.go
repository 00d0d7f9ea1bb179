package conduct

// Request carries a form definition through the Loader's rebuild pipeline.
// It provides access to both the previous and current definitions, allowing
// pipeline stages to make decisions based on what changed.
type Request struct {
	// Previous is the last successfully applied definition.
	// On initial load, this is the zero value.
	Previous FormDefinition

	// Current is the newly decoded and validated definition.
	// Pipeline stages may modify this value before it is stored.
	Current FormDefinition

	// Raw contains the original bytes received from the watcher.
	// This is useful for debugging or logging purposes.
	Raw []byte
}
