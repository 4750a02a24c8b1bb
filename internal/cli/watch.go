package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/kiosk-labs/kiosk/internal/watch"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload extensions whenever a root changes",
	Long: `Load both extension roots, then watch them and reload after every burst
of file changes until interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		all, err := a.load(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Loaded %d extension(s)\n", len(all))

		roots := a.svc.Registry().Roots()
		w, err := watch.New(watch.Config{
			Roots:    []string{roots.Builtin, roots.User},
			Debounce: watchDebounce,
			Logger:   a.logger.Zerolog(),
			OnChange: func(ctx context.Context, changed []string) error {
				all, err := a.svc.Reload(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s reloaded: %d extension(s) [%s]\n",
					time.Now().Format("15:04:05"), len(all), strings.Join(slices.Sorted(maps.Keys(all)), ", "))
				a.log.Debug().Strs("changed", changed).Msg("reloaded after change")
				return nil
			},
		})
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", strings.Join(w.Watched(), ", "))
		return w.Run(cmd.Context())
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Quiet period before reloading")
	rootCmd.AddCommand(watchCmd)
}
