package summarizer

// Formatter renders a Summary as text.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc adapts a plain function to Formatter.
type FormatFunc func(summary *Summary) string

// Format calls f(summary).
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}
