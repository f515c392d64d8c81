package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scenecast/scenecast/internal/domain/auth"
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Generate an Argon2id hash for the control password",
	Long: `Generate an Argon2id hash of the control password for use in config.

The output can be used directly in the auth.password_hash field.

Example:
  scenecast hash-password "my-control-password"

Security note: The password will appear in shell history.
Consider clearing history after use or using an environment variable:
  scenecast hash-password "$SCENECAST_PASSWORD"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := auth.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hashPasswordCmd)
}
