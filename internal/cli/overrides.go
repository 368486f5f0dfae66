package cli

import (
	"github.com/spf13/cobra"

	"github.com/danieljhkim/vendorgen/internal/engine"
)

type resolveOverridesOptions struct {
	*rootOptions

	moduleInfo     string
	proprietaryDir string
	configPath     string
}

func newResolveOverridesCmd(root *rootOptions) *cobra.Command {
	opts := &resolveOverridesOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "resolve-overrides <paths-file>",
		Short: "Find reference modules that already build a list of paths",
		Long: `Resolve installed output paths, one per line, against the reference build's
module-info.json. Modules built for one architecture only are qualified with
":32" or ":64".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			propDir := opts.proprietaryDir
			if opts.configPath != "" {
				cfg, err := loadSingleConfig(opts.configPath)
				if err != nil {
					return err
				}
				propDir = cfg.ProprietaryDir()
			}

			s, err := newSession(cmd, opts.rootOptions)
			if err != nil {
				return err
			}

			result, err := s.eng.ResolveOverrides(cmd.Context(), &engine.ResolveOverridesRequest{
				OverridesPath:  args[0],
				ModuleInfoPath: opts.moduleInfo,
				ProprietaryDir: propDir,
			})
			if err != nil {
				return err
			}

			if s.json {
				return outputJSON(s.out, result)
			}

			PrintSection(s.out, Count(len(result.Modules), "module already built", "modules already built"))
			if len(result.Modules) == 0 {
				PrintEmptyState(s.out, "None")
			}
			PrintList(s.out, result.Modules, 1)

			if len(result.MissingPaths) > 0 {
				PrintSection(s.out, Count(len(result.MissingPaths), "path still missing", "paths still missing"))
				PrintList(s.out, result.MissingPaths, 1)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.moduleInfo, "module-info", "", "Reference module-info.json")
	cmd.Flags().StringVar(&opts.proprietaryDir, "proprietary-dir", "", "Ignore modules generated into this directory")
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Device config whose proprietary directory is ignored")
	_ = cmd.MarkFlagRequired("module-info")
	cmd.MarkFlagsMutuallyExclusive("proprietary-dir", "config")

	return cmd
}
