package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Formatter converts a Summary to a document.
type Formatter interface {
	Format(summary *Summary) string
}

// FormatFunc adapts a function to Formatter.
type FormatFunc func(summary *Summary) string

// Format implements Formatter.
func (f FormatFunc) Format(summary *Summary) string { return f(summary) }

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	t func(string) string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate headings and labels.
func WithTranslator(t func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		if t != nil {
			f.t = t
		}
	}
}

// NewMarkdownFormatter creates a new MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{t: func(s string) string { return s }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements Formatter.
func (f *MarkdownFormatter) Format(summary *Summary) string {
	t := f.t
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Run Summary"))
	fmt.Fprintf(&sb, "%s: %s\n\n", t("Generated"), summary.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&sb, "%s: %d / %d\n\n", t("Succeeded"), summary.Succeeded(), len(summary.Runs))

	// Settings
	s := summary.Settings
	fmt.Fprintf(&sb, "## %s\n\n", t("Settings"))
	fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	row(&sb, t("Aligner"), s.Aligner)
	row(&sb, t("Model"), orNone(t, s.Model))
	row(&sb, t("Chip Size"), fmt.Sprintf("%dx%d", s.ChipSize, s.ChipSize))
	row(&sb, t("Frame Format"), s.FrameFormat)
	row(&sb, t("Workers"), fmt.Sprintf("%d", s.Workers))
	row(&sb, t("Jobs"), fmt.Sprintf("%d", s.Jobs))
	row(&sb, t("CRF"), fmt.Sprintf("%d", s.CRF))
	row(&sb, t("Encoder Preset"), s.Preset)
	sb.WriteString("\n")

	// Results
	fmt.Fprintf(&sb, "## %s\n\n", t("Results"))
	fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
		t("File"), t("State"), t("FPS"), t("Frames"), t("Chips"),
		t("Dropped"), t("Failed"), t("Audio"), t("Output"))
	sb.WriteString("|---|---|---:|---:|---:|---:|---:|---|---|\n")
	for _, r := range summary.Runs {
		fmt.Fprintf(&sb, "| %s | %s | %.2f | %d | %d | %d | %d | %s | %s |\n",
			baseName(r.Source), r.State, r.FPS, r.FramesExtracted, r.Chips,
			r.Dropped, r.Failed, audioLabel(t, r), orNone(t, r.Output))
	}
	sb.WriteString("\n")

	// Per-run details for successful runs
	for _, r := range summary.Runs {
		if !r.OK() {
			continue
		}
		fmt.Fprintf(&sb, "### %s\n\n", baseName(r.Source))
		fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
		row(&sb, t("Video Duration"), fmt.Sprintf("%.2f s", r.VideoDurationSec))
		row(&sb, t("Video File Size"), formatBytes(r.FileSize))
		row(&sb, t("Multi-face Frames"), fmt.Sprintf("%d", r.MultiFace))
		row(&sb, t("Processing Time"), r.Elapsed.Round(time.Millisecond).String())
		if r.PublishedURL != "" {
			row(&sb, t("Published"), r.PublishedURL)
		}
		sb.WriteString("\n")
	}

	// Errors
	var failed []RunInfo
	for _, r := range summary.Runs {
		if !r.OK() {
			failed = append(failed, r)
		}
	}
	if len(failed) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Errors"))
		for _, r := range failed {
			fmt.Fprintf(&sb, "- `%s`: %s\n", baseName(r.Source), r.Error)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "---\n%s centerstage\n", t("Generated by"))
	return sb.String()
}

func row(sb *strings.Builder, item, value string) {
	fmt.Fprintf(sb, "| %s | %s |\n", item, value)
}

func orNone(t func(string) string, s string) string {
	if s == "" {
		return t("None")
	}
	return s
}

func audioLabel(t func(string) string, r RunInfo) string {
	switch {
	case r.AudioPresent:
		return t("Yes")
	case r.AudioWarning != "":
		return t("Lost")
	default:
		return t("None")
	}
}

// formatBytes renders a byte count with a binary unit.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMGTPE"[exp])
}
