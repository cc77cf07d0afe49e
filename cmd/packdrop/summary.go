package packdrop

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/packdrop/pkg/types"
	"github.com/arthur-debert/packdrop/pkg/ui"
	"github.com/arthur-debert/packdrop/pkg/unpacker"
	"github.com/charmbracelet/glamour"
)

// summary is the JSON shape of a finished install
type summary struct {
	InstallPath  string   `json:"install_path"`
	Packs        []string `json:"packs"`
	Success      bool     `json:"success"`
	Interrupted  bool     `json:"interrupted"`
	Installed    int      `json:"installed"`
	Queued       int      `json:"queued"`
	Skipped      int      `json:"skipped"`
	StaleDeleted int      `json:"stale_deleted"`
	DurationMS   int64    `json:"duration_ms"`
}

func printSummary(out io.Writer, format ui.Format, inst types.Installation, res unpacker.Result) error {
	if format == ui.FormatJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary{
			InstallPath:  inst.InstallPath,
			Packs:        res.Packs,
			Success:      res.Success,
			Interrupted:  res.Interrupted,
			Installed:    res.Installed,
			Queued:       res.Queued,
			Skipped:      res.Skipped,
			StaleDeleted: res.StaleDeleted,
			DurationMS:   res.Duration.Milliseconds(),
		})
	}

	md := summaryMarkdown(inst, res)
	if format == ui.FormatTerminal {
		renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if rendered, err := renderer.Render(md); err == nil {
				md = rendered
			}
		}
	}
	_, err := fmt.Fprint(out, md)
	return err
}

func summaryMarkdown(inst types.Installation, res unpacker.Result) string {
	var b strings.Builder
	if res.Interrupted {
		b.WriteString("# " + MsgInterrupted + "\n\n")
	} else {
		b.WriteString("# Installation complete\n\n")
	}
	fmt.Fprintf(&b, "Target: `%s`\n\n", inst.InstallPath)
	if len(res.Packs) > 0 {
		b.WriteString("Packs:\n\n")
		for _, p := range res.Packs {
			fmt.Fprintf(&b, "- %s\n", p)
		}
		b.WriteString("\n")
	}
	b.WriteString("| installed | queued | skipped | removed |\n")
	b.WriteString("|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d |\n", res.Installed, res.Queued, res.Skipped, res.StaleDeleted)
	if res.Queued > 0 {
		b.WriteString("\nSome files are in use and will be replaced after a reboot.\n")
	}
	return b.String()
}
