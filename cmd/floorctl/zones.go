package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
)

func (a *app) zonesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "zones",
		Aliases: []string{"zone"},
		Short:   "List and edit zones",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List zones with their table counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderZones(cmd.OutOrStdout(), a.mgr.ZoneListing())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create NAME",
		Short: "Create an open zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.mgr.CreateZone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d created: %s\n", z.ID, z.Name)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename ID NAME",
		Short: "Rename a zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.RenameZone(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d renamed to %s\n", id, args[1])
			return nil
		},
	})

	cmd.AddCommand(a.zoneStatusCmd("open", floor.ZoneActive), a.zoneStatusCmd("close", floor.ZoneInactive))
	cmd.AddCommand(a.zoneDeleteCmd())

	cmd.AddCommand(&cobra.Command{
		Use:   "merge FROM INTO",
		Short: "Move every table of FROM into INTO and delete FROM",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			report, err := a.mgr.MergeZones(cmd.Context(), ids[0], ids[1])
			renderBatch(cmd.OutOrStdout(), "moved", report.Moves)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d merged into %d\n", ids[0], ids[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "move FROM TO",
		Short: "Repoint every table of FROM to TO, keeping both zones",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if err := a.mgr.MoveAllTables(cmd.Context(), ids[0], ids[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables of zone %d moved to %d\n", ids[0], ids[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "migrate FROM NAME",
		Short: "Create zone NAME and move every table of FROM into it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.MigrateTables(cmd.Context(), id, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tables of zone %d moved to new zone %s\n", id, args[1])
			return nil
		},
	})

	return cmd
}

func (a *app) zoneStatusCmd(use string, status floor.ZoneStatus) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: use + " a zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.SetZoneStatus(cmd.Context(), id, status); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "zone %d is now %s\n", id, status)
			return nil
		},
	}
}

func (a *app) zoneDeleteCmd() *cobra.Command {
	var (
		tables  string
		toZone  int64
		newZone string
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a zone, deciding what happens to its tables",
		Long: `Delete a zone. An empty zone needs --yes. A zone with free tables needs
--tables set to one of delete_all, move (with --to-zone), move_new (with
--new-zone) or move_unassigned. A zone with any table that is not free
cannot be deleted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			plan, err := a.mgr.PlanZoneDeletion(id)
			if err != nil {
				return err
			}
			opts := floor.DeleteOptions{Confirmed: yes, DestinationID: toZone, NewZoneName: newZone}
			switch plan.Outcome {
			case floor.OutcomeBlocked:
				for _, t := range plan.Blocking {
					fmt.Fprintf(out, "%s %s is %s\n", errStyle.Render("✗"), t.Name, t.State)
				}
			case floor.OutcomeEmpty:
				if !yes {
					return errors.New("zone is empty: pass --yes to delete it")
				}
			case floor.OutcomeNeedsChoice:
				d, ok := floor.ParseDisposition(tables)
				if !ok {
					fmt.Fprintf(out, "zone %s has %d free tables\n", plan.Zone.Name, len(plan.Tables))
					return floor.ErrDispositionRequired
				}
				opts.Disposition = d
			}

			report, err := a.mgr.DeleteZone(cmd.Context(), id, opts)
			if len(report.Moves) > 0 {
				renderBatch(out, "moved", report.Moves)
			}
			if err != nil {
				return err
			}
			if failed := report.Moves.Failed(); len(failed) > 0 {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("zone deleted, %d tables were left behind", len(failed))))
				return nil
			}
			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("zone %s deleted", plan.Zone.Name)))
			return nil
		},
	}
	cmd.Flags().StringVar(&tables, "tables", "", "what to do with the tables: delete_all|move|move_new|move_unassigned")
	cmd.Flags().Int64Var(&toZone, "to-zone", 0, "destination zone for --tables=move")
	cmd.Flags().StringVar(&newZone, "new-zone", "", "name of the zone created for --tables=move_new")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting an empty zone")
	return cmd
}
