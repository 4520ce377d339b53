package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/daryltucker/tree-trial/internal/analysis"
	"github.com/daryltucker/tree-trial/internal/model"
	"github.com/daryltucker/tree-trial/internal/tree"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("27"))
)

// barWidth is the length of the longest histogram bar.
const barWidth = 40

// RenderRecords writes the records table.
func RenderRecords(w io.Writer, records []model.ResultRecord) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Results (%d)", len(records))))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-20s %10s  %-24s %s\n", "Participant", "Time (s)", "Dataset", "Entry")
	for _, r := range records {
		fmt.Fprintf(&b, "%-20s %10.2f  %-24s %s\n", r.Participant, r.Time, r.Dataset, r.Entry)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderReport writes the histogram and both grouped means.
func RenderReport(w io.Writer, rep analysis.Report) error {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Histogram of times"))
	b.WriteString("\n")
	maxCount := 0
	for _, bin := range rep.Histogram {
		maxCount = max(maxCount, bin.Count)
	}
	for _, bin := range rep.Histogram {
		width := 0
		if maxCount > 0 {
			width = bin.Count * barWidth / maxCount
		}
		label := labelStyle.Render(fmt.Sprintf("%8.2f - %-8.2f", bin.LowerBound, bin.UpperBound))
		fmt.Fprintf(&b, "%s %s %d\n", label, barStyle.Render(strings.Repeat("#", width)), bin.Count)
	}

	writeMeans(&b, "Mean time per dataset", rep.MeanTimeByDataset)
	writeMeans(&b, "Mean time per participant", rep.MeanTimeByParticipant)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeMeans(b *strings.Builder, title string, means map[string]float64) {
	b.WriteString("\n")
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	for _, k := range analysis.SortedKeys(means) {
		fmt.Fprintf(b, "%-24s %8.2f s\n", k, means[k])
	}
}

// RenderTree writes root as an indented outline. The synthetic root itself
// is not printed when its label is empty.
func RenderTree(w io.Writer, root *tree.Node) error {
	if root == nil {
		return nil
	}
	var b strings.Builder
	depth := 0
	if root.Label != "" {
		b.WriteString(root.Label + "\n")
		depth = 1
	}
	for i := range root.Children {
		writeNode(&b, &root.Children[i], depth)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeNode(b *strings.Builder, n *tree.Node, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	if n.IsLeaf() {
		b.WriteString("- ")
	} else {
		b.WriteString("+ ")
	}
	b.WriteString(n.Label)
	b.WriteString("\n")
	for i := range n.Children {
		writeNode(b, &n.Children[i], depth+1)
	}
}
