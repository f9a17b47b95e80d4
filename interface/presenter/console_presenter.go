package presenter

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ca-srg/propertime/domain"
	"github.com/ca-srg/propertime/domain/repository"
	usecase "github.com/ca-srg/propertime/usecase/interface"
)

// ConsolePresenterImpl implements Presenter for terminal output
type ConsolePresenterImpl struct {
	writer    io.Writer
	errWriter io.Writer
}

// NewConsolePresenter creates a new console presenter
func NewConsolePresenter(out, errOut io.Writer) *ConsolePresenterImpl {
	return &ConsolePresenterImpl{
		writer:    out,
		errWriter: errOut,
	}
}

// PrintInstant prints the canonical form followed by the details
func (p *ConsolePresenterImpl) PrintInstant(result *usecase.InstantResult) error {
	_, _ = fmt.Fprintln(p.writer, result.Canonical)

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "  ISO:\t%s\n", result.ISO)
	_, _ = fmt.Fprintf(w, "  Epoch:\t%s\n", formatSeconds(result.Epoch))
	if result.Zone != "" {
		_, _ = fmt.Fprintf(w, "  Zone:\t%s\n", result.Zone)
	}
	_, _ = fmt.Fprintf(w, "  Offset:\t%s\n", result.Offset)
	_, _ = fmt.Fprintf(w, "  DST:\t%s\n", yesNo(result.DST))
	_, _ = fmt.Fprintf(w, "  Weekday:\t%s\n", weekdayName(result.Weekday))
	_, _ = fmt.Fprintf(w, "  Hex:\t%s\n", result.Hex)
	return w.Flush()
}

// PrintSpan prints the span components and length
func (p *ConsolePresenterImpl) PrintSpan(result *usecase.SpanResult) error {
	_, _ = fmt.Fprintf(p.writer, "Span: %s\n", result.Span)

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	kind := "physical"
	switch {
	case result.Calendar && result.Physical:
		kind = "composite"
	case result.Calendar:
		kind = "calendar"
	}
	_, _ = fmt.Fprintf(w, "  Kind:\t%s\n", kind)

	keys := make([]string, 0, len(result.Components))
	for k, v := range result.Components {
		if !isZeroComponent(v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		_, _ = fmt.Fprintf(w, "  %s:\t%v\n", strings.ToUpper(k[:1])+k[1:], result.Components[k])
	}

	if result.Anchor != "" {
		_, _ = fmt.Fprintf(w, "  From:\t%s\n", result.Anchor)
		_, _ = fmt.Fprintf(w, "  To:\t%s\n", result.End)
	}
	if result.Seconds != nil {
		_, _ = fmt.Fprintf(w, "  Seconds:\t%s\n", formatSeconds(*result.Seconds))
	} else {
		_, _ = fmt.Fprintf(w, "  Seconds:\t%s\n", "n/a (calendar span without anchor)")
	}
	return w.Flush()
}

// PrintSeries prints a series as a table of points
func (p *ConsolePresenterImpl) PrintSeries(result *usecase.SeriesResult) error {
	_, _ = fmt.Fprintf(p.writer, "Series %s (%s)\n", result.ID, result.Label)
	_, _ = fmt.Fprintf(p.writer, "Span: %s, %d points, aligned: %s, stored: %s\n",
		result.Span, len(result.Points), yesNo(result.Aligned), yesNo(result.Persisted))
	_, _ = fmt.Fprintln(p.writer, strings.Repeat("=", 80))

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "#\tISO\tEpoch\tDST\n")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 25),
		strings.Repeat("-", 14),
		strings.Repeat("-", 3))
	for i, point := range result.Points {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i, point.ISO, formatSeconds(point.Epoch), yesNo(point.DST))
	}
	return w.Flush()
}

// PrintSeriesList prints stored series
func (p *ConsolePresenterImpl) PrintSeriesList(items []repository.SeriesSummary) error {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(p.writer, "No stored series")
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\tLabel\tSpan\tPoints\tCreated\n")
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 36),
		strings.Repeat("-", 30),
		strings.Repeat("-", 8),
		strings.Repeat("-", 6),
		strings.Repeat("-", 20))
	for _, item := range items {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			truncateString(item.Label, 30),
			item.Span,
			formatNumber(item.Points),
			item.CreatedAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

// PrintDay prints the local day boundaries
func (p *ConsolePresenterImpl) PrintDay(result *usecase.DayResult) error {
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Start:\t%s\n", result.Start.Canonical)
	_, _ = fmt.Fprintf(w, "End:\t%s\n", result.End.Canonical)
	_, _ = fmt.Fprintf(w, "Length:\t%s s\n", formatSeconds(result.Seconds))
	return w.Flush()
}

// PrintExport prints where a series was written
func (p *ConsolePresenterImpl) PrintExport(result *usecase.ExportResult) error {
	_, _ = fmt.Fprintf(p.writer, "Exported %s points of series %s as %s to %s\n",
		formatNumber(result.Points), result.ID, result.Format, result.OutputPath)
	return nil
}

// PrintZoneInfo prints zone information
func (p *ConsolePresenterImpl) PrintZoneInfo(info repository.ZoneInfo) error {
	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Zone:\t%s\n", info.Name)
	_, _ = fmt.Fprintf(w, "Offset:\t%s\n", info.Offset)
	_, _ = fmt.Fprintf(w, "DST:\t%s\n", yesNo(info.IsDST))
	_, _ = fmt.Fprintf(w, "Source:\t%s\n", info.DetectionMethod)
	return w.Flush()
}

// PrintConfig prints a configuration export, one dotted key per line
func (p *ConsolePresenterImpl) PrintConfig(data map[string]interface{}) error {
	lines := flattenMap("", data)
	sort.Strings(lines)
	for _, line := range lines {
		_, _ = fmt.Fprintln(p.writer, line)
	}
	return nil
}

// PrintMessage prints a plain message
func (p *ConsolePresenterImpl) PrintMessage(msg string) error {
	_, _ = fmt.Fprintln(p.writer, msg)
	return nil
}

// PrintError prints an error message
func (p *ConsolePresenterImpl) PrintError(err error) error {
	if code := domain.GetErrorCode(err); code != "" {
		_, _ = fmt.Fprintf(p.errWriter, "Error [%s]: %v\n", code, err)
		return nil
	}
	_, _ = fmt.Fprintf(p.errWriter, "Error: %v\n", err)
	return nil
}

func flattenMap(prefix string, data map[string]interface{}) []string {
	var lines []string
	for k, v := range data {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := v.(map[string]interface{}); ok {
			lines = append(lines, flattenMap(key, nested)...)
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %v", key, v))
	}
	return lines
}

func formatSeconds(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}

	// Format with commas
	str := fmt.Sprintf("%d", n)
	result := ""
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result += ","
		}
		result += string(digit)
	}
	return result
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

var weekdays = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func weekdayName(wd int) string {
	if wd < 0 || wd >= len(weekdays) {
		return strconv.Itoa(wd)
	}
	return weekdays[wd]
}

func isZeroComponent(v any) bool {
	switch n := v.(type) {
	case int:
		return n == 0
	case float64:
		return n == 0
	default:
		return v == nil
	}
}
