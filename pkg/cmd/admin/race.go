package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velologic/cycling-season-manager-go/log"
	"github.com/velologic/cycling-season-manager-go/pkg/config"
)

var placesFile string

func NewRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "race lifecycle commands",
	}
	cmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	cmd.AddCommand(newRaceStartCmd())
	cmd.AddCommand(newRaceCancelCmd())
	cmd.AddCommand(newRaceCloseCmd())
	cmd.AddCommand(newRaceConfirmCmd())
	return cmd
}

func newRaceStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start raceId",
		Short: "moves a pending race to in_progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRaceID(args[0], func(ctx context.Context, raceID int) error {
				m, cleanup, err := setupManager()
				if err != nil {
					return err
				}
				defer cleanup()
				return m.StartRace(ctx, raceID)
			})
		},
	}
}

func newRaceCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel raceId",
		Short: "cancels a race",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRaceID(args[0], func(ctx context.Context, raceID int) error {
				m, cleanup, err := setupManager()
				if err != nil {
					return err
				}
				defer cleanup()
				return m.CancelRace(ctx, raceID)
			})
		},
	}
}

func newRaceCloseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "close raceId",
		Short: "ends a race and generates the provisional finish order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRaceID(args[0], func(ctx context.Context, raceID int) error {
				m, cleanup, err := setupManager()
				if err != nil {
					return err
				}
				defer cleanup()
				ranked, err := m.CloseRace(ctx, raceID)
				if err != nil {
					return err
				}
				for _, p := range ranked {
					log.Info("generated place",
						log.Int("place", *p.PlaceGenerated),
						log.Int("participation", p.ID),
						log.Int("rider", p.RiderID),
						log.Time("rideEnd", *p.RideEnd))
				}
				return nil
			})
		},
	}
}

func newRaceConfirmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "confirm raceId [participationId=place ...]",
		Short: "confirms the overall places and fans them out into the classifications",
		Long: `Confirms the coordinator-reviewed overall places of a race.
Places are given either as participationId=place arguments or as a JSON
object file ({"participationId": place, ...}) via --places-file.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRaceID(args[0], func(ctx context.Context, raceID int) error {
				places, err := parsePlaces(args[1:], placesFile)
				if err != nil {
					return err
				}
				m, cleanup, err := setupManager()
				if err != nil {
					return err
				}
				defer cleanup()
				placements, err := m.ConfirmPlaces(ctx, raceID, places)
				if err != nil {
					return err
				}
				log.Info("placements created", log.Int("count", len(placements)))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&placesFile, "places-file", "",
		"JSON file mapping participation ids to places")
	return cmd
}

func withRaceID(arg string, fn func(ctx context.Context, raceID int) error) error {
	raceID, err := strconv.Atoi(arg)
	if err != nil {
		return fmt.Errorf("invalid race id %q: %w", arg, err)
	}
	return fn(context.Background(), raceID)
}

// parsePlaces merges the id=place arguments with the optional JSON file,
// arguments win on conflicts.
func parsePlaces(args []string, file string) (map[int]int, error) {
	ret := map[int]int{}
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, err
		}
		byID := map[string]int{}
		if err := json.Unmarshal(data, &byID); err != nil {
			return nil, err
		}
		for k, v := range byID {
			id, err := strconv.Atoi(k)
			if err != nil {
				return nil, fmt.Errorf("invalid participation id %q: %w", k, err)
			}
			ret[id] = v
		}
	}
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid place argument %q, want id=place", arg)
		}
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("invalid participation id %q: %w", parts[0], err)
		}
		place, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("invalid place %q: %w", parts[1], err)
		}
		ret[id] = place
	}
	return ret, nil
}
