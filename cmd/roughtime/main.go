// Command roughtime queries a single Roughtime server and prints the
// validated midpoint and radius, or the reason validation failed.
package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coreclock/roughtime"
	"github.com/coreclock/roughtime/internal/rtlog"
	"github.com/coreclock/roughtime/transport"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		addr      string
		pubKeyB64 string
		timeout   time.Duration
		debug     bool
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "roughtime",
		Short: "Query a Roughtime server for an authenticated timestamp",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := rtlog.New(debug)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			pubKey, err := base64.StdEncoding.DecodeString(pubKeyB64)
			if err != nil {
				return fmt.Errorf("decoding --pubkey: %w", err)
			}

			result, err := query(cmd.Context(), log, addr, pubKey, timeout)
			if err != nil {
				return err
			}

			return printResult(cmd.OutOrStdout(), result, asJSON)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "server address, host:port (required)")
	cmd.Flags().StringVar(&pubKeyB64, "pubkey", "", "server long-term public key, base64 (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "exchange timeout")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print result as JSON")
	cmd.MarkFlagRequired("addr")
	cmd.MarkFlagRequired("pubkey")

	return cmd
}

type queryResult struct {
	Valid        bool   `json:"valid"`
	MidpointUTC  string `json:"midpoint_utc,omitempty"`
	MidpointUsec uint64 `json:"midpoint_usec,omitempty"`
	RadiusUsec   uint32 `json:"radius_usec,omitempty"`
	Error        string `json:"error,omitempty"`
}

func query(ctx context.Context, log *zap.Logger, addr string, pubKey []byte, timeout time.Duration) (*queryResult, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := roughtime.NewClient(pubKey, nil)
	req := client.CreateRequest()

	resp, err := transport.Exchange(ctx, log, addr, req)
	if err != nil {
		return nil, err
	}

	client.ProcessResponse(resp)

	if !client.IsResponseValid() {
		return &queryResult{Valid: false, Error: client.InvalidResponseCause().Error()}, nil
	}

	midp := client.Midpoint()
	return &queryResult{
		Valid:        true,
		MidpointUTC:  microsToTime(midp).Format(time.RFC3339Nano),
		MidpointUsec: midp,
		RadiusUsec:   client.Radius(),
	}, nil
}

func microsToTime(us uint64) time.Time {
	sec := int64(us / 1e6)
	nsec := int64(us%1e6) * 1e3
	return time.Unix(sec, nsec).UTC()
}

func printResult(w io.Writer, r *queryResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	if !r.Valid {
		_, err := fmt.Fprintf(w, "invalid response: %s\n", r.Error)
		return err
	}
	_, err := fmt.Fprintf(w, "midpoint: %s (± %dus)\n", r.MidpointUTC, r.RadiusUsec)
	return err
}
