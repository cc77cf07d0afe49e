package packdrop

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/packdrop/pkg/filesystem"
	"github.com/arthur-debert/packdrop/pkg/record"
	"github.com/arthur-debert/packdrop/pkg/ui"
	"github.com/spf13/cobra"
)

// recordView is what the record command shows for a directory
type recordView struct {
	record.Record
	Uninstall *record.Uninstall `json:",omitempty"`
}

func printUninstall(out io.Writer, list *record.Uninstall) {
	fmt.Fprintln(out, "Uninstall files:")
	for _, f := range list.Files {
		fmt.Fprintf(out, "  %s\n", f)
	}
	if len(list.Executables) == 0 {
		return
	}
	fmt.Fprintln(out, "Uninstall executables:")
	for _, e := range list.Executables {
		fmt.Fprintf(out, "  %s\n", strings.Join(append([]string{e.Path}, e.Args...), " "))
	}
}

func newRecordCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "record <install-dir>",
		Short:   MsgRecordShort,
		GroupID: "core",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := filesystem.NewOS()
			name := root.cfg.Install.RecordFile
			path := filepath.Join(args[0], name)
			out := cmd.OutOrStdout()

			if _, err := fsys.Stat(path); err != nil {
				fmt.Fprintf(out, MsgNoRecord, args[0])
				return nil
			}
			rec, err := record.Read(fsys, path)
			if err != nil {
				return err
			}
			view := recordView{Record: rec}
			uninstallPath := filepath.Join(args[0], record.UninstallFileName)
			if _, err := fsys.Stat(uninstallPath); err == nil {
				list, err := record.ReadUninstall(fsys, uninstallPath)
				if err != nil {
					return err
				}
				view.Uninstall = &list
			}

			format, err := root.outputFormat(cmd)
			if err != nil {
				return err
			}
			if format == ui.FormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}

			fmt.Fprintln(out, "Packs:")
			for _, p := range rec.Packs {
				fmt.Fprintf(out, "  %s\n", p)
			}
			names := make([]string, 0, len(rec.Variables))
			for k := range rec.Variables {
				names = append(names, k)
			}
			sort.Strings(names)
			fmt.Fprintln(out, "Variables:")
			for _, k := range names {
				fmt.Fprintf(out, "  %s=%s\n", k, rec.Variables[k])
			}
			if view.Uninstall != nil {
				printUninstall(out, view.Uninstall)
			}
			return nil
		},
	}
}
