package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/danieljhkim/vendorgen/internal/config"
	"github.com/danieljhkim/vendorgen/internal/engine"
	"github.com/danieljhkim/vendorgen/internal/planner"
)

type generateOptions struct {
	*rootOptions

	stock      string
	reference  string
	statePath  string
	fromState  bool
	fileList   string
	moduleInfo string
	out        string
	dryRun     bool
	jobs       int
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{rootOptions: root}

	cmd := &cobra.Command{
		Use:   "generate <config>",
		Short: "Generate vendor trees for one or more devices",
		Long: `Diff a stock system against a reference build and generate the vendor tree
of every device in the config.

For a device-list config, --stock and --reference are parent directories holding
one tree per device name, and devices are generated concurrently.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.stock, "stock", "", "Extracted stock system, one directory per partition")
	cmd.Flags().StringVar(&opts.reference, "reference", "", "Reference build product output directory")
	cmd.Flags().StringVar(&opts.statePath, "state", "", "Reference snapshot to diff against (single device)")
	cmd.Flags().BoolVar(&opts.fromState, "from-state", false, "Diff against each device's collected snapshot")
	cmd.Flags().StringVar(&opts.fileList, "file-list", "", "Use an existing proprietary-files.txt instead of diffing (single device)")
	cmd.Flags().StringVar(&opts.moduleInfo, "module-info", "", "Reference module-info.json (default: <reference>/module-info.json)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "Build root to write vendor trees under")
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Plan without writing anything")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 4, "Devices generated concurrently")
	_ = cmd.MarkFlagRequired("stock")
	cmd.MarkFlagsMutuallyExclusive("reference", "state", "from-state", "file-list")

	return cmd
}

// requests builds one request per device. Trees of a device list live in
// per-device subdirectories.
func (o *generateOptions) requests(s *session, configs []*config.DeviceConfig) ([]*engine.GenerateRequest, error) {
	multi := len(configs) > 1
	if multi && (o.statePath != "" || o.fileList != "" || o.moduleInfo != "") {
		return nil, fmt.Errorf("%w: --state, --file-list and --module-info apply to a single device", engine.ErrValidation)
	}

	deviceDir := func(root string, cfg *config.DeviceConfig) string {
		if root == "" || !multi {
			return root
		}
		return filepath.Join(root, cfg.Device.Name)
	}

	reqs := make([]*engine.GenerateRequest, 0, len(configs))
	for _, cfg := range configs {
		req := &engine.GenerateRequest{
			Config:         cfg,
			StockRoot:      deviceDir(o.stock, cfg),
			ReferenceRoot:  deviceDir(o.reference, cfg),
			StatePath:      o.statePath,
			FileListPath:   o.fileList,
			ModuleInfoPath: o.moduleInfo,
			OutDir:         o.out,
			RunID:          uuid.NewString(),
			DryRun:         o.dryRun,
		}
		if o.fromState {
			req.StatePath = s.paths.StatePath(cfg.Device.Name)
		}
		if req.ModuleInfoPath == "" {
			req.ModuleInfoPath = s.moduleInfoIn(req.ReferenceRoot)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func runGenerate(cmd *cobra.Command, opts *generateOptions, configPath string) error {
	if opts.jobs < 1 {
		return fmt.Errorf("%w: --jobs must be at least 1", engine.ErrValidation)
	}

	configs, err := config.LoadDeviceConfigs(configPath)
	if err != nil {
		return err
	}

	s, err := newSession(cmd, opts.rootOptions)
	if err != nil {
		return err
	}

	reqs, err := opts.requests(s, configs)
	if err != nil {
		return err
	}

	s.logger.Debug("generating", "devices", len(reqs), "jobs", opts.jobs)
	results := make([]*engine.GenerateResult, len(reqs))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.jobs)
	for i, req := range reqs {
		g.Go(func() error {
			result, err := s.eng.Generate(ctx, req)
			if err != nil {
				return fmt.Errorf("%s: %w", req.Config.Device.Name, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if s.json {
		return outputJSON(s.out, results)
	}
	for _, result := range results {
		printGenerateResult(s.out, result, opts.dryRun)
	}
	return nil
}

func printGenerateResult(w io.Writer, result *engine.GenerateResult, dryRun bool) {
	PrintSection(w, fmt.Sprintf("%s (run %s)", result.Device, result.RunID))

	PrintLabelValue(w, "Blobs", strconv.Itoa(len(result.Entries)))
	PrintLabelValue(w, "Modules", strconv.Itoa(len(result.NamedModules)))
	PrintLabelValue(w, "Copy rules", strconv.Itoa(len(result.CopyRules)))
	PrintLabelValue(w, "Symlinks", strconv.Itoa(len(result.Symlinks)))
	PrintLabelValue(w, "Already built", strconv.Itoa(len(result.AlreadyBuilt)))

	var ejected []string
	renamed := 0
	for _, c := range result.Conflicts {
		switch c.Resolution {
		case planner.ResolutionEject:
			ejected = append(ejected, c.Path)
		case planner.ResolutionRename:
			renamed++
		}
	}
	if renamed > 0 {
		PrintLabelValue(w, "Renamed", Count(renamed, "module", "modules"))
	}
	if len(ejected) > 0 {
		PrintWarning(w, Count(len(ejected), "library exists", "libraries exist")+" in another partition and will be copied:")
		PrintList(w, ejected, 1)
	}

	if dryRun {
		PrintEmptyState(w, "Dry run: nothing written")
		return
	}

	if stats := result.CopyStats; stats != nil {
		PrintLabelValue(w, "Files", fmt.Sprintf("%d copied, %d patched, %d unchanged", stats.Copied, stats.Patched, stats.Unchanged))
	}
	PrintList(w, result.Written, 1)
	PrintSuccess(w, "Generated vendor tree for "+result.Device)
}
