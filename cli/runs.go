package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"txtransform/runs"
)

// Runs only exist inside a serving process, so these commands talk to one
// over HTTP.

func newRunsCmd(env *cmdEnv) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List in-flight runs on a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := loadSettings(env.v)
			if err != nil {
				return err
			}
			list, err := fetchRuns(cmd.Context(), s.Server)
			if err != nil {
				return err
			}
			now := time.Now()
			t := tableData{Headers: []string{"ID", "PRESET", "STARTED", "AGE"}}
			for _, r := range list {
				t.Rows = append(t.Rows, []string{
					r.ID,
					r.Preset,
					r.StartedAt.Format(time.RFC3339),
					now.Sub(r.StartedAt).Round(time.Millisecond).String(),
				})
			}
			out := cmd.OutOrStdout()
			return render(out, detectFormat(env.output, out), list, t)
		},
	}
	cmd.PersistentFlags().String("server", "", "base URL of the txtransform server (default http://localhost:8080)")
	cmd.AddCommand(&cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel an in-flight run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(env.v)
			if err != nil {
				return err
			}
			return cancelRun(cmd.Context(), s.Server, args[0])
		},
	})
	return cmd
}

func fetchRuns(ctx context.Context, server string) ([]runs.Run, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server+"/api/runs", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list runs: %s", resp.Status)
	}
	var list []runs.Run
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return list, nil
}

func cancelRun(ctx context.Context, server, id string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, server+"/api/runs/"+id, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("run %s: %w", id, runs.ErrNotFound)
	default:
		return fmt.Errorf("cancel run: %s", resp.Status)
	}
}
