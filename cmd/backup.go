/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"log"

	"github.com/hotsuka/todo-app/internal/util"
	"github.com/spf13/cobra"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Copy the stored envelope to or from S3",
}

var backupPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the stored envelope to S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, adapter, config, err := openCollection()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		if config.Backup.Bucket == "" {
			return fmt.Errorf("❌ No backup bucket configured, run `todo config`")
		}

		raw, ok := adapter.ExportRaw()
		if !ok {
			return fmt.Errorf("❌ Nothing to back up: no envelope has been stored yet")
		}

		s3Client, err := util.NewS3Client(*config)
		if err != nil {
			return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
		}

		s3Key := config.Storage.Key + ".json"
		if err := util.UploadEnvelope(s3Client, config.Backup.Bucket, s3Key, raw); err != nil {
			return fmt.Errorf("❌ Backup failed: %w", err)
		}

		log.Printf("✅ Uploaded %s to s3://%s", s3Key, config.Backup.Bucket)
		return nil
	},
}

var backupPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Restore the envelope from S3",
	RunE: func(cmd *cobra.Command, args []string) error {
		col, adapter, config, err := openCollection()
		if err != nil {
			return fmt.Errorf("❌ Error loading config: %w", err)
		}

		if config.Backup.Bucket == "" {
			return fmt.Errorf("❌ No backup bucket configured, run `todo config`")
		}

		s3Client, err := util.NewS3Client(*config)
		if err != nil {
			return fmt.Errorf("❌ Failed to initialize S3 client: %w", err)
		}

		s3Key := config.Storage.Key + ".json"
		raw, ok, err := util.DownloadEnvelope(s3Client, config.Backup.Bucket, s3Key)
		if err != nil {
			return fmt.Errorf("❌ Restore failed: %w", err)
		}
		if !ok {
			return fmt.Errorf("❌ No backup found at s3://%s/%s", config.Backup.Bucket, s3Key)
		}

		// ImportRaw validates the downloaded envelope before anything is
		// overwritten locally.
		if err := adapter.ImportRaw(raw); err != nil {
			return fmt.Errorf("❌ Downloaded envelope rejected, local tasks unchanged: %w", err)
		}

		col.Load()
		log.Printf("✅ Restored %d tasks from s3://%s", col.Stats().Total, config.Backup.Bucket)
		return nil
	},
}

func init() {
	backupCmd.AddCommand(backupPushCmd, backupPullCmd)
	rootCmd.AddCommand(backupCmd)
}
