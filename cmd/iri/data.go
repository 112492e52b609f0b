package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"iri2020/internal/fetchers"
	"iri2020/internal/logger"
	"iri2020/internal/storage"
)

func init() {
	dataCmd.AddCommand(dataCheckCmd)
	dataCmd.AddCommand(dataStatusCmd)
	dataCmd.AddCommand(dataRefreshCmd)
	dataCmd.AddCommand(dataMirrorCmd)
	rootCmd.AddCommand(dataCmd)
}

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage the model's reference data files",
	Long: `data checks, refreshes and mirrors the apf107.dat and ig_rz.dat
index files the model reads from its data directory.`,
}

var dataCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Download missing or stale reference files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		fetcher := newFetcher(store)
		checkErr := fetcher.CheckFiles(cmd.Context())

		files, err := fetcher.Status(cmd.Context())
		if err != nil {
			return err
		}
		if err := printJSON(cmd, files); err != nil {
			return err
		}
		return checkErr
	},
}

var dataStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the reference files without downloading",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		files, err := newFetcher(store).Status(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, map[string]interface{}{
			"data_dir": store.BaseDir(),
			"files":    files,
		})
	},
}

var dataRefreshCmd = &cobra.Command{
	Use:   "refresh [file...]",
	Short: "Download reference files regardless of age",
	Long: `refresh downloads the named reference files, or all of them when none
are given, even when the local copies are fresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		names := args
		if len(names) == 0 {
			names = fetchers.ReferenceFiles
		}
		fetcher := newFetcher(store)
		for _, name := range names {
			if err := fetcher.Refresh(cmd.Context(), name); err != nil {
				return err
			}
			logger.Info("Refreshed reference file", map[string]interface{}{"file": name})
		}

		files, err := fetcher.Status(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd, files)
	},
}

var dataMirrorCmd = &cobra.Command{
	Use:   "mirror <location>",
	Short: "Copy the reference files to another store",
	Long: `mirror copies the local reference files to gs://bucket/prefix or a
directory, so other deployments can use it as IRI_REFERENCE_URL.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		src, err := openStore()
		if err != nil {
			return err
		}
		defer src.Close()

		dst, err := storage.NewStorageClient(ctx, args[0])
		if err != nil {
			return err
		}
		defer dst.Close()

		copied := make([]storage.FileInfo, 0, len(fetchers.ReferenceFiles))
		for _, name := range fetchers.ReferenceFiles {
			data, err := src.GetFile(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", name, err)
			}
			if err := dst.StoreFile(ctx, name, data); err != nil {
				return fmt.Errorf("failed to mirror %s: %w", name, err)
			}
			info, err := dst.Stat(ctx, name)
			if err != nil {
				return err
			}
			copied = append(copied, info)
		}

		return printJSON(cmd, map[string]interface{}{
			"location": args[0],
			"files":    copied,
		})
	},
}
