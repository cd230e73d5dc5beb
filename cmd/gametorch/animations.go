package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maauso/gametorch/internal/animation"
	"github.com/maauso/gametorch/internal/workflow"
)

var errUploadNotConfigured = errors.New("--upload requires S3_BUCKET and S3_REGION")

func newAnimationsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "animations",
		Short: "Animation-related operations",
	}

	cmd.AddCommand(
		newGetCmd(a),
		newListCmd(a),
		newGenerateCmd(a),
		newRegenerateCmd(a),
	)
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var porcelain bool

	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve an existing animation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			raw, err := a.deps.Service.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetch animation: %w", err)
			}
			return writeRaw(a.out, raw, !porcelain)
		},
	}
	cmd.Flags().BoolVar(&porcelain, "porcelain", false, "print the server response without status labels")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var porcelain bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your animations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.init(); err != nil {
				return err
			}
			raw, err := a.deps.Service.List(cmd.Context())
			if err != nil {
				return fmt.Errorf("list animations: %w", err)
			}
			return writeRaw(a.out, raw, !porcelain)
		},
	}
	cmd.Flags().BoolVar(&porcelain, "porcelain", false, "print the server response without status labels")
	return cmd
}

func newGenerateCmd(a *app) *cobra.Command {
	var (
		in        workflow.GenerateInput
		modelID   int
		modelName string
	)

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate a new animation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			if in.Upload && !a.cfg.S3Enabled() {
				return errUploadNotConfigured
			}

			in.Request.Prompt = args[0]
			if cmd.Flags().Changed("model-id") {
				in.Request.ModelID = &modelID
			}
			in.Request.ModelName = modelName

			res, err := a.deps.Service.Generate(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("generate animation: %w", err)
			}
			return writeJSON(a.out, res)
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&in.Block, "block", "b", false, "block until rendering finishes and download the ZIP")
	flags.StringVarP(&in.OutputFile, "output-file", "o", "", "output file for the resulting ZIP when using --block")
	flags.StringVarP(&in.Request.InputImagePath, "input-image", "i", "", "optional input image `FILE` to include in generation")
	flags.IntVar(&modelID, "model-id", animation.DefaultModelID, "animation model `ID`")
	flags.StringVar(&modelName, "model-name", "", "animation model `NAME`")
	flags.BoolVarP(&in.Silent, "silent", "s", false, "suppress progress messages")
	flags.IntVarP(&in.Request.DurationSeconds, "duration", "d", 5, "duration in `SECONDS` (5 or 10)")
	flags.BoolVar(&in.Upload, "upload", false, "also upload the ZIP to the configured S3 bucket")
	cmd.MarkFlagsMutuallyExclusive("model-id", "model-name")

	return cmd
}

func newRegenerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regenerate <id>",
		Short: "Regenerate an existing animation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.init(); err != nil {
				return err
			}
			raw, err := a.deps.Service.Regenerate(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("regenerate animation: %w", err)
			}
			return writeRaw(a.out, raw, false)
		},
	}
}
