package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/spf13/cobra"
)

// snapshot is the file format every command reads.
type snapshot struct {
	Participants []models.Participant `json:"participants"`
	Matches      []models.Match       `json:"matches"`
}

type options struct {
	format    string
	maxRounds int
	round     int
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "pairctl",
		Short: "Run the pairing and standings engine over a tournament snapshot",
		Long: `pairctl reads a JSON snapshot {"participants": [...], "matches": [...]}
from a file, or stdin when the file is "-", and prints the engine's answer as JSON.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.format, "format", string(models.FormatSwiss), "tournament format: swiss or round_robin")
	root.PersistentFlags().IntVar(&opts.maxRounds, "max-rounds", 0, "Swiss round cap, 0 for ceil(log2 n)+2")

	pairingsCmd := &cobra.Command{
		Use:   "pairings FILE",
		Short: "Print the pairings of the next round, or of --round",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, format, err := load(cmd, args[0], opts)
			if err != nil {
				return err
			}
			if opts.round <= 0 {
				return writeJSON(cmd.OutOrStdout(), format.NextRound(snap.Participants, snap.Matches))
			}
			return writeJSON(cmd.OutOrStdout(), pairingsForRound(format, snap, opts.round))
		},
	}
	pairingsCmd.Flags().IntVar(&opts.round, "round", 0, "round number to pair (default: the round after the latest one)")

	root.AddCommand(
		&cobra.Command{
			Use:   "standings FILE",
			Short: "Print ranked standings",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, format, err := load(cmd, args[0], opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), format.Standings(snap.Participants, snap.Matches))
			},
		},
		pairingsCmd,
		&cobra.Command{
			Use:   "schedule FILE",
			Short: "Print the full round-robin schedule for the participants",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, err := readSnapshot(cmd.InOrStdin(), args[0])
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), brackets.GenerateRoundRobinPairings(snap.Participants))
			},
		},
		&cobra.Command{
			Use:   "placements FILE",
			Short: "Print final placements",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, format, err := load(cmd, args[0], opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), format.Placements(snap.Participants, snap.Matches))
			},
		},
		&cobra.Command{
			Use:   "complete FILE",
			Short: "Report whether the tournament is complete",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				snap, format, err := load(cmd, args[0], opts)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
					"complete":      format.IsComplete(snap.Participants, snap.Matches),
					"current_round": brackets.CurrentRound(snap.Matches),
				})
			},
		},
	)
	return root
}

func load(cmd *cobra.Command, path string, opts *options) (*snapshot, brackets.Format, error) {
	format, err := brackets.ForKind(models.FormatKind(opts.format), opts.maxRounds)
	if err != nil {
		return nil, nil, err
	}
	snap, err := readSnapshot(cmd.InOrStdin(), path)
	if err != nil {
		return nil, nil, err
	}
	return snap, format, nil
}

func readSnapshot(stdin io.Reader, path string) (*snapshot, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		r = f
	}

	var snap snapshot
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	return &snap, nil
}

func pairingsForRound(format brackets.Format, snap *snapshot, round int) []models.Pairing {
	if format.Kind() == models.FormatSwiss {
		return brackets.GenerateSwissPairings(snap.Participants, snap.Matches, round)
	}
	pairings := make([]models.Pairing, 0)
	for _, p := range brackets.GenerateRoundRobinPairings(snap.Participants) {
		if p.Round == round {
			pairings = append(pairings, p)
		}
	}
	return pairings
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
