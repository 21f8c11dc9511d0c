package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/linvoke/internal/script"
)

const channelColumnWidth = 12

// renderChannels writes the channel layout of a report as a two-column table.
func renderChannels(w io.Writer, report *script.Report) {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true)
	column := r.NewStyle().Width(channelColumnWidth)
	empty := r.NewStyle().Faint(true)

	fmt.Fprintln(w, header.Render(column.Render("CHANNEL")+"HANDLERS"))
	for _, ch := range report.Channels {
		handlers := empty.Render("-")
		if len(ch.Handlers) > 0 {
			handlers = strings.Join(ch.Handlers, ", ")
		}
		fmt.Fprintln(w, column.Render(strconv.FormatUint(uint64(ch.ID), 10))+handlers)
	}
}
