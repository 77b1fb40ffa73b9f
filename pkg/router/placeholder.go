package router

import "fmt"

// DebugPlaceholder is the debug-mode answer when no provider is usable.
// It always contains prompt verbatim.
func DebugPlaceholder(prompt, promptContext string) string {
	if promptContext == "" {
		promptContext = "(none)"
	}
	return fmt.Sprintf("[debug mode] prompt: %s\ncontext: %s\n\nNo LLM provider is configured.", prompt, promptContext)
}

// ErrorText is the answer text for a failed generation.
func ErrorText(err error) string {
	return "Error: " + err.Error()
}
