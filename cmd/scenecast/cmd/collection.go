package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scenecast/scenecast/internal/adapter/outbound/sqlite"
	"github.com/scenecast/scenecast/internal/adapter/outbound/yamlfile"
	"github.com/scenecast/scenecast/internal/config"
	"github.com/scenecast/scenecast/internal/domain/resource"
)

var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Export or import the scene collection as YAML",
}

var collectionExportCmd = &cobra.Command{
	Use:   "export [file.yaml]",
	Short: "Export the scene collection to a YAML file",
	Long: `Export the scene collection from the configured database to a
human-editable YAML file.

Example:
  scenecast collection export backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := sqlite.Open(cfg.Collection.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open collection database: %w", err)
		}
		defer store.Close()

		col, err := store.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load collection: %w", err)
		}

		if err := yamlfile.WriteCollection(args[0], col); err != nil {
			return err
		}
		fmt.Printf("exported %d sources to %s\n", len(col.Sources), args[0])
		return nil
	},
}

var collectionImportCmd = &cobra.Command{
	Use:   "import [file.yaml]",
	Short: "Import a scene collection from a YAML file",
	Long: `Import a scene collection from a YAML file into the configured
database, replacing the stored collection. The file is validated
before anything is written.

Example:
  scenecast collection import backup.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		col, err := yamlfile.ReadCollection(args[0])
		if err != nil {
			return err
		}

		// Dry-run restore to catch dangling references before replacing
		// the stored collection.
		if _, err := resource.ImportCollection(col); err != nil {
			return fmt.Errorf("invalid collection: %w", err)
		}

		store, err := sqlite.Open(cfg.Collection.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open collection database: %w", err)
		}
		defer store.Close()

		if err := store.Save(cmd.Context(), col); err != nil {
			return fmt.Errorf("failed to save collection: %w", err)
		}
		fmt.Printf("imported %d sources from %s\n", len(col.Sources), args[0])
		return nil
	},
}

func init() {
	collectionCmd.AddCommand(collectionExportCmd)
	collectionCmd.AddCommand(collectionImportCmd)
	rootCmd.AddCommand(collectionCmd)
}
