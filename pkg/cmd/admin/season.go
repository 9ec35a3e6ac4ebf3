package admin

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/config"
	"github.com/velologic/cycling-season-manager-go/pkg/model"
)

var (
	seasonStart string
	seasonEnd   string
)

func NewSeasonCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "season",
		Short: "season management commands",
	}
	cmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.AddCommand(newSeasonCreateCmd())
	cmd.AddCommand(newSeasonRecalcCmd())
	return cmd
}

func newSeasonCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create name",
		Short: "creates a season with its standard classifications",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := time.Parse(time.RFC3339, seasonStart)
			if err != nil {
				return fmt.Errorf("invalid start %q: %w", seasonStart, err)
			}
			end, err := time.Parse(time.RFC3339, seasonEnd)
			if err != nil {
				return fmt.Errorf("invalid end %q: %w", seasonEnd, err)
			}
			m, cleanup, err := setupManager()
			if err != nil {
				return err
			}
			defer cleanup()
			season, err := m.CreateSeason(context.Background(), &model.Season{
				Name:  args[0],
				Start: start,
				End:   end,
			})
			if err != nil {
				return err
			}
			log.Info("season created", log.Int("id", season.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&seasonStart, "start", "",
		"season start (RFC3339)")
	cmd.Flags().StringVar(&seasonEnd, "end", "",
		"season end (RFC3339)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newSeasonRecalcCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalc [seasonId]",
		Short: "recalculates the classification scores of a season",
		Long: `Recalculates every rider's classification scores from the stored
placements of the season's ended races. Without an argument the season
active at the current time is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seasonID := 0
			if len(args) == 1 {
				var err error
				if seasonID, err = strconv.Atoi(args[0]); err != nil {
					return fmt.Errorf("invalid season id %q: %w", args[0], err)
				}
			}
			m, cleanup, err := setupManager()
			if err != nil {
				return err
			}
			defer cleanup()
			return m.RecalculateSeason(context.Background(), seasonID)
		},
	}
}
