package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-communities/pkg/algorithms"
)

// Format names a report encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists every supported report format
var Formats = []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTOML)}

// ParseFormat maps a format name to a Format
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	case FormatTOML:
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("unknown report format %q, want one of %v", name, Formats)
	}
}

// IDMapper translates graph node IDs into the identifiers shown to users
type IDMapper func(uint64) uint64

// Community is one detected community with sorted members
type Community struct {
	ID      int      `json:"id" yaml:"id" toml:"id"`
	Size    int      `json:"size" yaml:"size" toml:"size"`
	Density float64  `json:"density" yaml:"density" toml:"density"`
	Members []uint64 `json:"members" yaml:"members,flow" toml:"members"`
}

// Edge is one removed edge, smaller endpoint first
type Edge struct {
	A uint64 `json:"a" yaml:"a" toml:"a"`
	B uint64 `json:"b" yaml:"b" toml:"b"`
}

// Round summarises one split round
type Round struct {
	Round            int           `json:"round" yaml:"round" toml:"round"`
	ComponentsBefore int           `json:"components_before" yaml:"components_before" toml:"components_before"`
	ComponentsAfter  int           `json:"components_after" yaml:"components_after" toml:"components_after"`
	EdgesRemoved     int           `json:"edges_removed" yaml:"edges_removed" toml:"edges_removed"`
	Iterations       int           `json:"iterations" yaml:"iterations" toml:"iterations"`
	Duration         time.Duration `json:"duration_ns" yaml:"duration" toml:"duration_ns"`
}

// Report is the rendered outcome of a Girvan-Newman run
type Report struct {
	Source          string      `json:"source,omitempty" yaml:"source,omitempty" toml:"source,omitempty"`
	Status          string      `json:"status" yaml:"status" toml:"status"`
	RequestedRounds int         `json:"requested_rounds" yaml:"requested_rounds" toml:"requested_rounds"`
	RoundsCompleted int         `json:"rounds_completed" yaml:"rounds_completed" toml:"rounds_completed"`
	Modularity      float64     `json:"modularity" yaml:"modularity" toml:"modularity"`
	Communities     []Community `json:"communities" yaml:"communities" toml:"communities"`
	Removed         []Edge      `json:"removed" yaml:"removed" toml:"removed"`
	Rounds          []Round     `json:"rounds" yaml:"rounds" toml:"rounds"`
}

// New builds a report from result. mapID may be nil, in which case graph
// IDs are reported as they are.
func New(result *algorithms.GirvanNewmanResult, mapID IDMapper) *Report {
	if mapID == nil {
		mapID = func(id uint64) uint64 { return id }
	}

	r := &Report{
		Status:          result.Status.String(),
		RequestedRounds: result.RequestedRounds,
		RoundsCompleted: result.RoundsCompleted(),
		Modularity:      result.Modularity,
		Communities:     make([]Community, 0, len(result.Communities)),
		Removed:         make([]Edge, 0, len(result.Removed)),
		Rounds:          make([]Round, 0, len(result.Rounds)),
	}

	for _, c := range result.Communities {
		members := make([]uint64, len(c.Nodes))
		for i, id := range c.Nodes {
			members[i] = mapID(id)
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })

		r.Communities = append(r.Communities, Community{
			ID:      c.ID,
			Size:    c.Size,
			Density: c.Density,
			Members: members,
		})
	}

	for _, pair := range result.Removed {
		a, b := mapID(pair.A), mapID(pair.B)
		if a > b {
			a, b = b, a
		}
		r.Removed = append(r.Removed, Edge{A: a, B: b})
	}

	for _, s := range result.Rounds {
		r.Rounds = append(r.Rounds, Round(s))
	}

	return r
}

// Write renders the report in the given format
func (r *Report) Write(w io.Writer, format Format) error {
	switch format {
	case FormatText:
		return r.WriteText(w)
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML:
		return r.WriteYAML(w)
	case FormatTOML:
		return r.WriteTOML(w)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// WriteJSON writes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the report as YAML
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// WriteTOML writes the report as TOML
func (r *Report) WriteTOML(w io.Writer) error {
	return toml.NewEncoder(w).SetIndentTables(true).Encode(r)
}

// WriteText writes a human-readable summary. Styling is dropped when w is
// not a terminal.
func (r *Report) WriteText(w io.Writer) error {
	renderer := lipgloss.NewRenderer(w)
	title := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF00FF"))
	label := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	warn := renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFF00"))

	var s strings.Builder

	heading := "Girvan-Newman communities"
	if r.Source != "" {
		heading += " (" + r.Source + ")"
	}
	s.WriteString(title.Render(heading))
	s.WriteString("\n\n")

	status := r.Status
	if r.Status != algorithms.StatusCompleted.String() {
		status = warn.Render(status)
	}
	fmt.Fprintf(&s, "%s %s\n", label.Render("Status:     "), status)
	fmt.Fprintf(&s, "%s %d of %d\n", label.Render("Rounds:     "), r.RoundsCompleted, r.RequestedRounds)
	fmt.Fprintf(&s, "%s %.6f\n", label.Render("Modularity: "), r.Modularity)
	fmt.Fprintf(&s, "%s %d\n", label.Render("Communities:"), len(r.Communities))
	s.WriteString("\n")

	for _, c := range r.Communities {
		fmt.Fprintf(&s, "  #%d  size=%d  density=%.3f  [%s]\n", c.ID, c.Size, c.Density, joinIDs(c.Members))
	}

	if len(r.Removed) > 0 {
		s.WriteString("\n")
		s.WriteString(label.Render("Removed edges:"))
		s.WriteString("\n")
		for i, e := range r.Removed {
			fmt.Fprintf(&s, "  %3d. %d-%d\n", i+1, e.A, e.B)
		}
	}

	_, err := io.WriteString(w, s.String())
	return err
}

func joinIDs(ids []uint64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	return strings.Join(parts, " ")
}
