package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/skyfleet/skyctl/fanout"
	"github.com/skyfleet/skyctl/types"
)

// Format selects how results are rendered
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatCSV   Format = "csv"
)

// ParseFormat validates an --output flag value
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatTable, FormatJSON, FormatCSV:
		return Format(s), nil
	}
	return "", fmt.Errorf("invalid output format: %s (must be one of: table, json, csv)", s)
}

// Machines renders a machine listing in the requested format
func Machines(w io.Writer, format Format, machines []types.Machine) error {
	switch format {
	case FormatJSON:
		return machinesJSON(w, machines)
	case FormatCSV:
		return machinesCSV(w, machines)
	default:
		machinesTable(w, machines)
		return nil
	}
}

func machinesTable(w io.Writer, machines []types.Machine) {
	headers := []string{"ID", "NAME", "DATACENTER", "STATE", "IMAGE", "IP", "AGE"}
	rows := make([][]string, 0, len(machines))
	for _, m := range machines {
		rows = append(rows, []string{
			m.ID,
			m.Name,
			m.Datacenter,
			m.State,
			m.Image,
			m.PrivateIP,
			formatAge(m.CreatedAt),
		})
	}
	RenderTable(w, headers, rows, nil)
}

func machinesJSON(w io.Writer, machines []types.Machine) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		Machines []types.Machine `json:"machines"`
	}{Machines: machines})
}

func machinesCSV(w io.Writer, machines []types.Machine) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "datacenter", "state", "image", "ip", "created_at"}); err != nil {
		return err
	}
	for _, m := range machines {
		record := []string{
			m.ID, m.Name, m.Datacenter, m.State, m.Image, m.PrivateIP,
			m.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Failures reports failed datacenters, one line each with tag and cause
func Failures(w io.Writer, errs []*fanout.DCError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%d datacenter(s) failed:\n", len(errs))
	for _, dcErr := range errs {
		fmt.Fprintf(w, "  %s  %-18s %v\n", dcErr.Datacenter, dcErr.Kind, dcErr.Err)
	}
}

// formatAge renders time since t compactly, kubectl style
func formatAge(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	age := time.Since(t)
	switch {
	case age < time.Minute:
		return fmt.Sprintf("%ds", int(age.Seconds()))
	case age < time.Hour:
		return fmt.Sprintf("%dm", int(age.Minutes()))
	case age < 24*time.Hour:
		return fmt.Sprintf("%dh", int(age.Hours()))
	default:
		return fmt.Sprintf("%dd", int(age.Hours()/24))
	}
}
