package packdrop

import (
	"fmt"

	"github.com/arthur-debert/packdrop/pkg/filequeue"
	"github.com/arthur-debert/packdrop/pkg/filesystem"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newQueueCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "queue [manifest]",
		Short:   MsgQueueShort,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := filesystem.NewOS()
			path := (&filequeue.ManifestCommitter{Dir: root.cfg.Queue.ManifestDir}).Path()
			if len(args) == 1 {
				path = args[0]
			}
			out := cmd.OutOrStdout()

			if _, err := fsys.Stat(path); err != nil {
				fmt.Fprintln(out, MsgNoManifest)
				return nil
			}
			manifest, err := filequeue.LoadManifest(fsys, path)
			if err != nil {
				return err
			}
			if len(manifest.Moves) == 0 {
				fmt.Fprintln(out, MsgNoManifest)
				return nil
			}
			data, err := yaml.Marshal(manifest)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}
