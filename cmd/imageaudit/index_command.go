package main

import (
	"fmt"

	"github.com/glycora/imageaudit/internal/imageindex"
	"github.com/glycora/imageaudit/internal/ontology"
	"github.com/spf13/cobra"
)

func newIndexCommand(cmdCtx *commandContext) *cobra.Command {
	var imageDir string

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the searchable image asset index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmdCtx.setup(); err != nil {
				return err
			}
			cfg, log := cmdCtx.cfg, cmdCtx.log

			dir := imageDir
			if dir == "" {
				dir = cfg.Audit.ImageDir
			}

			ont := ontology.New(ontology.DefaultConfig())
			builder := imageindex.NewBuilder(dir, ont, log)

			entries, err := builder.Build()
			if err != nil {
				return err
			}
			if err := builder.Save(entries, cfg.Audit.IndexFile()); err != nil {
				return err
			}

			fmt.Printf("Indexed %d images into %s\n", len(entries), cfg.Audit.IndexFile())
			return nil
		},
	}

	cmd.Flags().StringVar(&imageDir, "image-dir", "", "asset directory to scan (defaults to audit.image_dir)")

	return cmd
}
