package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/chrisdamba/couriermatch/internal/admin"
	"github.com/chrisdamba/couriermatch/internal/models"
	"github.com/spf13/cobra"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "Manage the courier name and photo catalog",
}

// withAdmin runs fn against the configured store with a bounded context.
func withAdmin(cmd *cobra.Command, fn func(ctx context.Context, svc *admin.Service) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	a, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close(context.Background())

	if a.cfg.Store.Driver == "memory" {
		a.logger.Warn("the memory store does not persist between commands")
	}
	return fn(ctx, admin.NewService(a.repo, a.logger))
}

func printRecords(w io.Writer, records ...*models.DriverPhotoRecord) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tPHOTO URL\tUPDATED")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\n", r.ID, r.Name, r.IsActive, r.PhotoURL, r.UpdatedAt.Format(time.RFC3339))
	}
	return tw.Flush()
}

var driversListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every catalog entry, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, svc *admin.Service) error {
			records, err := svc.List(ctx)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records...)
		})
	},
}

var driversAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a courier name and photo",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		photo, _ := cmd.Flags().GetString("photo-url")
		inactive, _ := cmd.Flags().GetBool("inactive")
		active := !inactive

		return withAdmin(cmd, func(ctx context.Context, svc *admin.Service) error {
			record, err := svc.Create(ctx, admin.CreateCommand{Name: name, PhotoURL: photo, IsActive: &active})
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), record)
		})
	},
}

var driversUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change the name, photo or active flag of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd models.DriverPhotoUpdate
		if cmd.Flags().Changed("name") {
			name, _ := cmd.Flags().GetString("name")
			upd.Name = &name
		}
		if cmd.Flags().Changed("photo-url") {
			photo, _ := cmd.Flags().GetString("photo-url")
			upd.PhotoURL = &photo
		}
		if cmd.Flags().Changed("active") {
			active, _ := cmd.Flags().GetBool("active")
			upd.IsActive = &active
		}

		return withAdmin(cmd, func(ctx context.Context, svc *admin.Service) error {
			record, err := svc.Update(ctx, args[0], upd)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), record)
		})
	},
}

var driversToggleCmd = &cobra.Command{
	Use:   "toggle <id>",
	Short: "Flip the active flag of an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, svc *admin.Service) error {
			record, err := svc.ToggleActive(ctx, args[0])
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), record)
		})
	},
}

var driversDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an entry from the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(cmd, func(ctx context.Context, svc *admin.Service) error {
			if err := svc.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		})
	},
}

var driversSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the catalog with generated couriers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		reset, _ := cmd.Flags().GetBool("reset")
		seed, _ := cmd.Flags().GetInt64("seed")

		return withAdmin(cmd, func(ctx context.Context, svc *admin.Service) error {
			records, err := svc.Seed(ctx, count, seed, reset)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d couriers\n", len(records))
			return nil
		})
	},
}

func init() {
	driversAddCmd.Flags().String("name", "", "courier display name")
	driversAddCmd.Flags().String("photo-url", "", "absolute http(s) URL of the photo")
	driversAddCmd.Flags().Bool("inactive", false, "add the entry without offering it to sessions")

	driversUpdateCmd.Flags().String("name", "", "new display name")
	driversUpdateCmd.Flags().String("photo-url", "", "new photo URL")
	driversUpdateCmd.Flags().Bool("active", true, "whether sessions may pick the entry")

	driversSeedCmd.Flags().Int("count", 20, "number of couriers to generate")
	driversSeedCmd.Flags().Bool("reset", false, "delete the existing catalog first")

	driversCmd.AddCommand(driversListCmd, driversAddCmd, driversUpdateCmd, driversToggleCmd, driversDeleteCmd, driversSeedCmd)
}
