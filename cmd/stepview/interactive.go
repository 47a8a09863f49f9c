package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/meshgrid/stepmesh"
	"github.com/meshgrid/stepmesh/config"
	"github.com/meshgrid/stepmesh/model"
	"github.com/meshgrid/stepmesh/step"
)

var viewCmd = &cobra.Command{
	Use:   "view <file>",
	Short: "Browse the model interactively",
	Long:  `Open a terminal UI for walking the spatial tree and inspecting property sets.`,
	Args:  cobra.ExactArgs(1),
	Run:   runView,
}

func runView(cmd *cobra.Command, args []string) {
	cfg := loadConfig(args[0])
	p := tea.NewProgram(newViewerModel(args[0], cfg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		exitError("%v", err)
	}
}

type viewerState int

const (
	stateBrowse viewerState = iota
	stateInspect
	stateFilter
)

// treeRow is one line of the flattened spatial tree.
type treeRow struct {
	node  *model.SpatialNode
	depth int
}

type viewerModel struct {
	err      error
	m        *model.Model
	filename string
	allRows  []treeRow
	rows     []treeRow
	filter   textinput.Model
	styles   viewerStyles
	selected int
	offset   int
	height   int
	state    viewerState
}

type viewerStyles struct {
	title    lipgloss.Style
	tree     lipgloss.Style
	selected lipgloss.Style
	property lipgloss.Style
	errText  lipgloss.Style
	help     lipgloss.Style
}

func newViewerStyles(v config.Viewer) viewerStyles {
	return viewerStyles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(v.TreeColor)).
			Padding(0, 1),
		tree: lipgloss.NewStyle().
			Foreground(lipgloss.Color(v.TreeColor)),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color(v.SelectedColor)),
		property: lipgloss.NewStyle().
			Foreground(lipgloss.Color(v.PropertyColor)),
		errText: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")),
	}
}

func newViewerModel(filename string, cfg *config.Config) *viewerModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "type name"
	ti.Width = 40
	return &viewerModel{
		filename: filename,
		filter:   ti,
		styles:   newViewerStyles(cfg.Viewer),
		height:   24,
	}
}

type modelLoadedMsg struct {
	err  error
	m    *model.Model
	rows []treeRow
}

func (v *viewerModel) Init() tea.Cmd {
	return v.loadFile
}

func (v *viewerModel) loadFile() tea.Msg {
	m, err := stepmesh.ParseFile(context.Background(), v.filename, stepmesh.Options{})
	if m == nil {
		return modelLoadedMsg{err: err}
	}

	root := m.Spatial()
	if root == nil {
		return modelLoadedMsg{err: fmt.Errorf("no spatial structure in %s", v.filename)}
	}
	var rows []treeRow
	root.Walk(func(n *model.SpatialNode, depth int) {
		rows = append(rows, treeRow{node: n, depth: depth})
	})
	return modelLoadedMsg{m: m, rows: rows}
}

func (v *viewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return v, tea.Quit

		case "q":
			if v.state != stateFilter {
				return v, tea.Quit
			}

		case "up", "k":
			if v.state == stateBrowse && v.selected > 0 {
				v.selected--
				if v.selected < v.offset {
					v.offset = v.selected
				}
			}

		case "down", "j":
			if v.state == stateBrowse && v.selected < len(v.rows)-1 {
				v.selected++
				if v.selected >= v.offset+v.visibleRows() {
					v.offset = v.selected - v.visibleRows() + 1
				}
			}

		case "enter":
			switch v.state {
			case stateBrowse:
				if len(v.rows) > 0 {
					v.state = stateInspect
				}
			case stateFilter:
				v.filter.Blur()
				v.state = stateBrowse
			}

		case "/":
			if v.state == stateBrowse {
				v.state = stateFilter
				v.filter.Focus()
				return v, textinput.Blink
			}

		case "esc":
			switch v.state {
			case stateInspect:
				v.state = stateBrowse
			case stateFilter:
				v.filter.SetValue("")
				v.filter.Blur()
				v.applyFilter()
				v.state = stateBrowse
			}
		}

	case modelLoadedMsg:
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		v.m = msg.m
		v.allRows = msg.rows
		v.rows = msg.rows
	}

	if v.state == stateFilter {
		var cmd tea.Cmd
		v.filter, cmd = v.filter.Update(msg)
		v.applyFilter()
		return v, cmd
	}

	return v, nil
}

// applyFilter narrows the tree rows to nodes whose type contains the filter
// text, case-insensitively. An empty filter restores the full tree.
func (v *viewerModel) applyFilter() {
	needle := strings.ToUpper(strings.TrimSpace(v.filter.Value()))
	if needle == "" {
		v.rows = v.allRows
	} else {
		v.rows = nil
		for _, r := range v.allRows {
			if strings.Contains(r.node.Type, needle) {
				v.rows = append(v.rows, r)
			}
		}
	}
	v.selected = 0
	v.offset = 0
}

func (v *viewerModel) visibleRows() int {
	n := v.height - 4 // title, blank, blank, help
	if n < 1 {
		n = 1
	}
	return n
}

func (v *viewerModel) View() string {
	if v.err != nil {
		return v.styles.errText.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", v.err))
	}
	if v.m == nil {
		return "Loading model..."
	}

	var b strings.Builder
	b.WriteString(v.styles.title.Render("stepview"))
	b.WriteString(" ")
	b.WriteString(v.filename)
	b.WriteString("\n\n")

	switch v.state {
	case stateBrowse, stateFilter:
		if v.state == stateFilter {
			b.WriteString(v.filter.View())
			b.WriteString("\n\n")
		}
		end := v.offset + v.visibleRows()
		if end > len(v.rows) {
			end = len(v.rows)
		}
		for i := v.offset; i < end; i++ {
			line := v.formatRow(v.rows[i])
			if i == v.selected && v.state == stateBrowse {
				b.WriteString(v.styles.selected.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if v.state == stateFilter {
			b.WriteString(v.styles.help.Render("enter apply • esc clear"))
		} else {
			b.WriteString(v.styles.help.Render("↑/↓ select • enter inspect • / filter • q quit"))
		}

	case stateInspect:
		b.WriteString(v.renderInspect(v.rows[v.selected].node))
		b.WriteString("\n")
		b.WriteString(v.styles.help.Render("esc back • q quit"))
	}

	return b.String()
}

func (v *viewerModel) formatRow(r treeRow) string {
	indent := strings.Repeat("  ", r.depth)
	label := v.styles.tree.Render(r.node.Type)
	if name := entityName(v.m, r.node.ID); name != "" {
		label += " " + name
	}
	return fmt.Sprintf("%s#%d %s", indent, r.node.ID, label)
}

func (v *viewerModel) renderInspect(n *model.SpatialNode) string {
	var b strings.Builder
	fmt.Fprintf(&b, "#%d %s", n.ID, v.styles.tree.Render(n.Type))
	if name := entityName(v.m, n.ID); name != "" {
		fmt.Fprintf(&b, " %q", name)
	}
	fmt.Fprintf(&b, "  [%s, %d children]\n\n", n.Kind, len(n.Children))

	b.WriteString(v.renderAttrs(n.ID))

	sets := v.m.PropertySets(n.ID)
	if len(sets) == 0 {
		b.WriteString("\nNo property sets.\n")
		return b.String()
	}
	for _, set := range sets {
		fmt.Fprintf(&b, "\n%s\n", set.Name)
		for _, p := range set.Properties {
			line := fmt.Sprintf("  %-30s %s", p.Name, formatValue(p.Value))
			if p.Quantity != model.QuantityNone {
				line += fmt.Sprintf(" [%s]", p.Quantity)
			}
			b.WriteString(v.styles.property.Render(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (v *viewerModel) renderAttrs(id step.EntityID) string {
	ent, err := v.m.Get(id)
	if err != nil {
		return v.styles.errText.Render(fmt.Sprintf("decode failed: %v\n", err))
	}
	var b strings.Builder
	for i, a := range ent.Attrs {
		b.WriteString(v.styles.property.Render(
			fmt.Sprintf("  [%d] %s", i, formatValue(a))))
		b.WriteString("\n")
	}
	return b.String()
}
