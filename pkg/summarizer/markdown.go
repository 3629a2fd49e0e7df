package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used for headings and labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = t
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Detection Summary"))

	row := func(label, value string) {
		fmt.Fprintf(&b, "| %s | %s |\n", t(label), value)
	}
	table := func(title string) {
		fmt.Fprintf(&b, "## %s\n\n| %s | %s |\n|---|---|\n", t(title), t("Item"), t("Value"))
	}

	table("Run")
	if s.Run.ID != "" {
		row("Run ID", s.Run.ID)
	}
	row("Plant Type", s.Run.PlantType)
	if s.Run.SourcePath != "" {
		row("Source", s.Run.SourcePath)
	}
	if s.Run.OutputPath != "" {
		row("Output", fmt.Sprintf("%s (%s)", s.Run.OutputPath, formatBytes(s.Run.OutputSize)))
	}
	if s.Run.Duration > 0 {
		row("Processing Time", s.Run.Duration.Round(time.Millisecond).String())
	}
	b.WriteString("\n")

	table("Video")
	row("Resolution", fmt.Sprintf("%dx%d", s.Video.Width, s.Video.Height))
	row("Frame Rate", fmt.Sprintf("%.2f fps", s.Video.FPS))
	row("Total Frames", fmt.Sprintf("%d", s.Video.TotalFrames))
	row("Frames Written", fmt.Sprintf("%d", s.Processing.FramesWritten))
	b.WriteString("\n")

	table("Inference")
	if s.Settings.Model != "" {
		row("Model", s.Settings.Model)
	}
	if s.Settings.Stride > 0 {
		row("Sampling", fmt.Sprintf("1/%d, %s %d", s.Settings.Stride, t("first frames"), s.Settings.MaxFrames))
	}
	if s.Settings.Confidence > 0 {
		row("Confidence", fmt.Sprintf("%.0f%%", s.Settings.Confidence*100))
	}
	if s.Settings.Overlap > 0 {
		row("Overlap", fmt.Sprintf("%.0f%%", s.Settings.Overlap*100))
	}
	row("Sampled Frames", fmt.Sprintf("%d", s.Processing.SampledFrames))
	row("Unique Frames", fmt.Sprintf("%d", s.Processing.UniqueFrames))
	row("Detections", fmt.Sprintf("%d", s.Processing.Detections))
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Findings"))
	counts := s.DiseaseCounts()
	if len(counts) == 0 {
		fmt.Fprintf(&b, "%s\n\n", t("No disease detected."))
	} else {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n|---|---|---:|---|\n",
			t("Disease"), t("Plant Part"), t("Count"), t("Frames"))
		for _, c := range counts {
			fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", c.Disease, c.PlantPart, c.Count, joinInts(c.Frames))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "%s: %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		fmt.Fprintf(&b, " (plantscan %s)", f.version)
	}
	b.WriteString("\n")

	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}
