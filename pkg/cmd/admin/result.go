package admin

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/velologic/cycling-season-manager-go/pkg/config"
)

func NewResultCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "result",
		Short: "result submission commands",
	}
	cmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.PersistentFlags().StringVar(&config.RideFileDir,
		"ride-file-dir",
		"",
		"directory prepended to relative recording paths")
	cmd.AddCommand(newResultSubmitCmd())
	return cmd
}

func newResultSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit raceId riderId recording.gpx",
		Short: "submits a ride recording for a rider's race participation",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			raceID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid race id %q: %w", args[0], err)
			}
			riderID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rider id %q: %w", args[1], err)
			}
			recording := args[2]
			if config.RideFileDir != "" && !filepath.IsAbs(recording) {
				recording = filepath.Join(config.RideFileDir, recording)
			}
			m, cleanup, err := setupManager()
			if err != nil {
				return err
			}
			defer cleanup()
			return m.SubmitResult(context.Background(), raceID, riderID, recording)
		},
	}
}
