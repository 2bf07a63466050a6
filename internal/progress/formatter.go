package progress

import "fmt"

// formatCounter returns the [done/total] document counter
func formatCounter(done, total int) string {
	return fmt.Sprintf("[%d/%d]", done, total)
}

func buildMessage(done, total int) string {
	return fmt.Sprintf("%s Validating documents", formatCounter(done, total))
}

// checkmark returns the appropriate checkmark symbol
func checkmark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Checkmark
	if supportsColor && symbols.Checkmark == "✓" {
		mark = "\033[32m" + mark + "\033[0m" // Green
	}
	return mark
}

// failureMark returns the appropriate failure symbol
func failureMark(symbols ProgressSymbols, supportsColor bool) string {
	mark := symbols.Failure
	if supportsColor && symbols.Failure == "✗" {
		mark = "\033[31m" + mark + "\033[0m" // Red
	}
	return mark
}
