package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/engine"
)

// filterOptions select the files and partitions of a listing from a device
// config, if one is given.
type filterOptions struct {
	configPath string
}

func (o *filterOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "", "Device config whose file and partition filters apply")
}

func (o *filterOptions) load() (files, partitions *config.Filters, err error) {
	if o.configPath == "" {
		return nil, nil, nil
	}
	cfg, err := loadSingleConfig(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	return &cfg.Filters.Files, &cfg.Filters.Partitions, nil
}

type diffFilesOptions struct {
	*rootOptions
	filterOptions

	reference string
	statePath string
	showAdded bool
}

func newDiffFilesCmd(root *rootOptions) *cobra.Command {
	opts := &diffFilesOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "diff-files <stock>",
		Short: "List stock files missing from the reference build",
		Long: `Compare every partition of a stock system with a reference build or snapshot.
Partitions absent from either side are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, partitions, err := opts.load()
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts.rootOptions)
			if err != nil {
				return err
			}

			result, err := s.eng.DiffFiles(cmd.Context(), &engine.DiffRequest{
				StockRoot:     args[0],
				ReferenceRoot: opts.reference,
				StatePath:     opts.statePath,
				Files:         files,
				Partitions:    partitions,
			})
			if err != nil {
				return err
			}

			if s.json {
				return outputJSON(s.out, result)
			}
			printDiffResult(s.out, result, opts.showAdded)
			return nil
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVar(&opts.reference, "reference", "", "Reference build product output directory")
	cmd.Flags().StringVar(&opts.statePath, "state", "", "Reference snapshot to diff against")
	cmd.Flags().BoolVar(&opts.showAdded, "added", false, "Also list files only the reference has")
	cmd.MarkFlagsMutuallyExclusive("reference", "state")
	cmd.MarkFlagsOneRequired("reference", "state")

	return cmd
}

func printDiffResult(w io.Writer, result *engine.DiffResult, showAdded bool) {
	for _, diff := range result.Partitions {
		PrintSection(w, fmt.Sprintf("%s: %s", diff.Partition, Count(len(diff.Missing), "missing file", "missing files")))
		if len(diff.Missing) == 0 {
			PrintEmptyState(w, "Nothing missing")
		}
		for _, f := range diff.Missing {
			_, _ = successColor.Fprintf(w, "  + %s\n", f)
		}
		if showAdded {
			for _, f := range diff.Added {
				_, _ = errorColor.Fprintf(w, "  - %s\n", f)
			}
		}
	}

	_, _ = fmt.Fprintln(w)
	PrintSuccess(w, fmt.Sprintf("%s across %s",
		Count(result.MissingCount(), "missing file", "missing files"),
		Count(len(result.Partitions), "partition", "partitions")))
}

type listFilesOptions struct {
	*rootOptions
	filterOptions
}

func newListFilesCmd(root *rootOptions) *cobra.Command {
	opts := &listFilesOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "list-files <root>",
		Short: "List the files of a system tree",
		Long:  `List every file of a system tree that survives the built-in ignore rules and the config's filters.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, partitions, err := opts.load()
			if err != nil {
				return err
			}
			s, err := newSession(cmd, opts.rootOptions)
			if err != nil {
				return err
			}

			result, err := s.eng.ListFiles(cmd.Context(), &engine.ListRequest{
				Root:       args[0],
				Files:      files,
				Partitions: partitions,
			})
			if err != nil {
				return err
			}

			if s.json {
				return outputJSON(s.out, result)
			}
			// One path per line so the output can be piped
			for _, part := range result.Partitions {
				for _, f := range part.Files {
					_, _ = fmt.Fprintln(s.out, f)
				}
			}
			return nil
		},
	}

	opts.bind(cmd)
	return cmd
}
