package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wit-codec/frame"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	offsetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const hexDumpLimit = 512

func runInspect(inPath, outPath string) error {
	raw, err := readInput(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	info, err := frame.Info(raw)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Frame"))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(fmt.Sprintf("%s %s\n",
			labelStyle.Render(fmt.Sprintf("%-12s", label)),
			valueStyle.Render(value)))
	}
	row("version", fmt.Sprintf("%d", info.Version))
	row("compression", info.Compression.String())
	row("raw size", fmt.Sprintf("%d bytes", info.RawSize))
	row("stored size", fmt.Sprintf("%d bytes", info.CompressedSize))
	row("checksum", fmt.Sprintf("%016x", info.Checksum))

	enc, err := frame.Decode(raw)
	if err != nil {
		return err
	}
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Buffer"))
	b.WriteString("\n\n")
	hexDump(&b, enc.Buffer)
	if enc.HasMemory() {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Memory"))
		b.WriteString("\n\n")
		hexDump(&b, enc.Memory)
	}

	return writeOutput(outPath, []byte(b.String()))
}

func hexDump(b *strings.Builder, data []byte) {
	remaining := 0
	if len(data) > hexDumpLimit {
		remaining = len(data) - hexDumpLimit
		data = data[:hexDumpLimit]
	}
	for off := 0; off < len(data); off += 16 {
		end := off + 16
		if end > len(data) {
			end = len(data)
		}
		line := data[off:end]

		var hex strings.Builder
		var ascii strings.Builder
		for i, c := range line {
			if i == 8 {
				hex.WriteByte(' ')
			}
			fmt.Fprintf(&hex, "%02x ", c)
			if c >= 0x20 && c < 0x7f {
				ascii.WriteByte(c)
			} else {
				ascii.WriteByte('.')
			}
		}
		b.WriteString(fmt.Sprintf("%s  %-49s |%s|\n",
			offsetStyle.Render(fmt.Sprintf("%08x", off)),
			hex.String(), ascii.String()))
	}
	if remaining > 0 {
		b.WriteString(offsetStyle.Render(fmt.Sprintf("... %d more bytes", remaining)))
		b.WriteByte('\n')
	}
}
