package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/vendorgen/internal/engine"
	"github.com/danieljhkim/vendorgen/internal/partition"
)

type collectStateOptions struct {
	*rootOptions

	device     string
	moduleInfo string
	out        string
}

func newCollectStateCmd(root *rootOptions) *cobra.Command {
	opts := &collectStateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "collect-state <reference>",
		Short: "Snapshot a reference build for later diffs",
		Long: `Record the file lists and module index of a reference build's product output
directory, so vendor trees can be generated without keeping the build around.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, opts.rootOptions)
			if err != nil {
				return err
			}

			out := opts.out
			if out == "" {
				if err := s.paths.EnsureDirectories(); err != nil {
					return err
				}
				out = s.paths.StatePath(opts.device)
			}

			start := time.Now()
			result, err := s.eng.CollectState(cmd.Context(), &engine.CollectStateRequest{
				Device:         opts.device,
				ReferenceRoot:  args[0],
				ModuleInfoPath: opts.moduleInfo,
				OutPath:        out,
			})
			if err != nil {
				return err
			}

			if s.json {
				return outputJSON(s.out, result)
			}

			PrintLabelValue(s.out, "Partitions", joinPartitions(result.Partitions))
			PrintLabelValue(s.out, "Files", fmt.Sprint(result.Files))
			PrintLabelValue(s.out, "Modules", fmt.Sprint(result.Modules))
			PrintSuccess(s.out, fmt.Sprintf("Saved %s in %s", result.Path, time.Since(start).Round(time.Millisecond)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.device, "device", "d", "", "Device the reference was built for")
	cmd.Flags().StringVar(&opts.moduleInfo, "module-info", "", "Reference module-info.json (default: <reference>/module-info.json)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Snapshot path (default: the device's state file)")
	_ = cmd.MarkFlagRequired("device")

	return cmd
}

func joinPartitions(parts []partition.Partition) string {
	names := make([]string, len(parts))
	for i, p := range parts {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}
