package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/wippyai/wit-codec/codec"
	"github.com/wippyai/wit-codec/frame"
	"github.com/wippyai/wit-codec/value"
)

// treeLine is one row of the flattened value tree.
type treeLine struct {
	label string
	text  string
	depth int
}

type viewModel struct {
	err       error
	filename  string
	info      frame.FileInfo
	lines     []treeLine
	visible   []int // indexes into lines after filtering
	filter    textinput.Model
	filtering bool
	cursor    int
	offset    int
	height    int
}

func newViewModel(filename string, info frame.FileInfo, root value.Value) *viewModel {
	ti := textinput.New()
	ti.Placeholder = "filter"
	ti.Prompt = "/ "
	ti.Width = 40

	m := &viewModel{
		filename: filename,
		info:     info,
		filter:   ti,
		height:   24,
	}
	m.lines = flattenValue("value", root, 0, nil)
	m.applyFilter("")
	return m
}

func flattenValue(label string, v value.Value, depth int, out []treeLine) []treeLine {
	switch v.Kind() {
	case value.KindRecord:
		out = append(out, treeLine{label: label, text: "record", depth: depth})
		for i := 0; i < v.Len(); i++ {
			out = flattenValue(v.FieldName(i), v.Elem(i), depth+1, out)
		}
	case value.KindTuple, value.KindList:
		out = append(out, treeLine{label: label, text: fmt.Sprintf("%s(%d)", v.Kind(), v.Len()), depth: depth})
		for i := 0; i < v.Len(); i++ {
			out = flattenValue(fmt.Sprintf("[%d]", i), v.Elem(i), depth+1, out)
		}
	case value.KindOption:
		if !v.IsSome() {
			out = append(out, treeLine{label: label, text: "none", depth: depth})
			break
		}
		out = append(out, treeLine{label: label, text: "some", depth: depth})
		out = flattenValue("value", *v.Payload(), depth+1, out)
	case value.KindResult:
		name := "ok"
		if v.IsErr() {
			name = "err"
		}
		out = append(out, treeLine{label: label, text: name, depth: depth})
		if p := v.Payload(); p != nil {
			out = flattenValue("payload", *p, depth+1, out)
		}
	case value.KindVariant:
		out = append(out, treeLine{label: label, text: v.Str(), depth: depth})
		if p := v.Payload(); p != nil {
			out = flattenValue("payload", *p, depth+1, out)
		}
	default:
		out = append(out, treeLine{label: label, text: v.String(), depth: depth})
	}
	return out
}

func (m *viewModel) applyFilter(query string) {
	query = strings.ToLower(strings.TrimSpace(query))
	m.visible = m.visible[:0]
	for i, l := range m.lines {
		if query == "" ||
			strings.Contains(strings.ToLower(l.label), query) ||
			strings.Contains(strings.ToLower(l.text), query) {
			m.visible = append(m.visible, i)
		}
	}
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
	m.offset = 0
}

func (m *viewModel) Init() tea.Cmd {
	return nil
}

func (m *viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.filtering {
			switch msg.String() {
			case "enter", "esc":
				m.filtering = false
				m.filter.Blur()
				if msg.String() == "esc" {
					m.filter.SetValue("")
					m.applyFilter("")
				}
				return m, nil
			default:
				var cmd tea.Cmd
				m.filter, cmd = m.filter.Update(msg)
				m.applyFilter(m.filter.Value())
				return m, cmd
			}
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.visible) - 1
			if m.cursor < 0 {
				m.cursor = 0
			}
		case "/":
			m.filtering = true
			m.filter.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m *viewModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Frame Viewer"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("  ")
	b.WriteString(offsetStyle.Render(fmt.Sprintf("%s, %d bytes raw",
		m.info.Compression, m.info.RawSize)))
	b.WriteString("\n\n")

	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}

	end := m.offset + rows
	if end > len(m.visible) {
		end = len(m.visible)
	}
	for vi := m.offset; vi < end; vi++ {
		l := m.lines[m.visible[vi]]
		indent := strings.Repeat("  ", l.depth)
		line := fmt.Sprintf("%s%s: %s", indent,
			labelStyle.Render(l.label), valueStyle.Render(l.text))
		if vi == m.cursor {
			line = selectedStyle.Render(fmt.Sprintf("%s%s: %s", indent, l.label, l.text))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(offsetStyle.Render("no matching nodes"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.filtering {
		b.WriteString(m.filter.View())
	} else {
		help := "↑/↓ move • / filter • q quit"
		if m.filter.Value() != "" {
			help = fmt.Sprintf("filter: %q • %s", m.filter.Value(), help)
		}
		b.WriteString(offsetStyle.Render(help))
	}
	return b.String()
}

func runView(typeExpr, inPath string) error {
	ct, err := compileType(typeExpr)
	if err != nil {
		return err
	}
	raw, err := readInput(inPath)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	info, err := frame.Info(raw)
	if err != nil {
		return err
	}
	enc, err := frame.Decode(raw)
	if err != nil {
		return err
	}
	lifted, _, err := codec.LiftEncoded(enc, ct, codec.Tree{})
	if err != nil {
		return err
	}
	root, ok := lifted.(value.Value)
	if !ok {
		return fmt.Errorf("unexpected lifted value %T", lifted)
	}

	name := inPath
	if name == "-" {
		name = "(stdin)"
	}
	p := tea.NewProgram(newViewModel(name, info, root), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
