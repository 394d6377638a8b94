package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"goal-level-extractor/internal/config"
	"goal-level-extractor/internal/extract"
	"goal-level-extractor/internal/logging"
	"goal-level-extractor/internal/objfile"
	"goal-level-extractor/internal/texture"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type rootFlags struct {
	configFile string
	inputDir   string
	textureDir string
	outputDir  string
	workers    int
	dumpLevels bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "extract",
		Short:         "Extract compressed level artifacts from decompiled game archives",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Configure(flags.verbose)
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "path to config.toml")
	pf.StringVar(&flags.inputDir, "input", "", "archive dump directory")
	pf.StringVar(&flags.textureDir, "textures", "", "texture dump directory")
	pf.StringVar(&flags.outputDir, "output", "", "output directory (default fr3_out)")
	pf.IntVar(&flags.workers, "workers", 0, "worker goroutines (default NumCPU)")
	pf.BoolVar(&flags.dumpLevels, "dump-levels", false, "also export debug .glb meshes")
	pf.BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newLevelsCommand(flags))
	root.AddCommand(newTexdumpCommand(flags))
	return root
}

func loadConfig(flags *rootFlags) (config.Config, error) {
	var cfg config.Config
	if flags.configFile != "" {
		var err error
		cfg, err = config.Load(flags.configFile)
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg.Resolve(config.Flags{
		InputDir:   flags.inputDir,
		TextureDir: flags.textureDir,
		OutputDir:  flags.outputDir,
		Workers:    flags.workers,
		DumpLevels: flags.dumpLevels,
	})
	return cfg, nil
}

func newLevelsCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Run the full extraction batch",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.InputDir == "" {
				return fmt.Errorf("no input directory: use --input or set input_dir in the config")
			}

			version, err := objfile.ParseGameVersion(cfg.GameVersion)
			if err != nil {
				return err
			}
			db, err := objfile.LoadDir(cfg.InputDir, version)
			if err != nil {
				return err
			}

			texDB := texture.NewDatabase()
			if cfg.TextureDir != "" {
				texDB, err = texture.LoadDatabaseFromDir(cfg.TextureDir, cfg.MaxTextureDim)
				if err != nil {
					return err
				}
			}

			hacks, err := cfg.MissingTexturesByLevel()
			if err != nil {
				return err
			}

			return extract.ExtractAllLevels(extract.Batch{
				DB:               db,
				TexDB:            texDB,
				CommonArchive:    cfg.CommonArchive,
				LevelArchives:    cfg.LevelArchives,
				Hacks:            hacks,
				DumpLevels:       cfg.DumpLevels,
				ExtractCollision: cfg.ExtractCollision,
				OutputDir:        cfg.OutputDir,
				Workers:          cfg.Workers,
			})
		},
	}
}

func newTexdumpCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "texdump <output-dir>",
		Short: "Dump the ingested texture database as WebP images",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.TextureDir == "" {
				return fmt.Errorf("no texture directory: use --textures or set texture_dir in the config")
			}
			texDB, err := texture.LoadDatabaseFromDir(cfg.TextureDir, cfg.MaxTextureDim)
			if err != nil {
				return err
			}
			if err := texDB.ConfirmIdentical(); err != nil {
				return err
			}
			return texDB.DumpWebP(args[0])
		},
	}
}
