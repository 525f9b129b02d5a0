package main

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
)

func (a *app) tablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tables",
		Aliases: []string{"table"},
		Short:   "List and edit tables",
	}
	cmd.AddCommand(a.tableListCmd(), a.tableCreateCmd(), a.tableUpdateCmd())
	cmd.AddCommand(a.tableActiveCmd("enable", true), a.tableActiveCmd("disable", false))

	cmd.AddCommand(&cobra.Command{
		Use:   "delete ID",
		Short: "Delete a table that carries no order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.DeleteTable(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table %d deleted\n", id)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "bulk-delete ID...",
		Short: "Select several tables and delete them in one pass",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			// selecting twice would deselect
			slices.Sort(ids)
			ids = slices.Compact(ids)
			if a.mgr.Mode() != floor.ModeDelete {
				a.mgr.ToggleMode(floor.ModeDelete)
			}
			for _, id := range ids {
				if _, err := a.mgr.ToggleSelection(id); err != nil {
					a.mgr.LeaveMode()
					return fmt.Errorf("table %d: %w", id, err)
				}
			}
			res, err := a.mgr.ConfirmBulkDelete(cmd.Context())
			renderBatch(cmd.OutOrStdout(), "deleted", res)
			if err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("%d of %d tables were not deleted", len(res.Failed()), len(res))
			}
			return nil
		},
	})
	return cmd
}

func (a *app) tableListCmd() *cobra.Command {
	var (
		zone       int64
		unassigned bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tables, optionally for one zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter := floor.FilterAll
			switch {
			case unassigned:
				filter = floor.FilterUnassigned
			case zone != 0:
				if _, ok := a.mgr.Zone(zone); !ok {
					return floor.ErrZoneNotFound
				}
				filter = floor.FilterZone(zone)
			}
			renderTableViews(cmd.OutOrStdout(), a.mgr.Views(filter))
			return nil
		},
	}
	cmd.Flags().Int64Var(&zone, "zone", 0, "only tables of this zone")
	cmd.Flags().BoolVar(&unassigned, "unassigned", false, "only tables without a zone")
	return cmd
}

func (a *app) tableCreateCmd() *cobra.Command {
	var (
		capacity string
		zone     int64
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a free table to a zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seats, err := floor.ParseCapacity(capacity, a.cfg.CapacityCeiling)
			if err != nil {
				return err
			}
			t, err := a.mgr.CreateTable(cmd.Context(), seats, zone)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s created with %d seats (id %d)\n", t.Name, t.Capacity, t.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&capacity, "capacity", "4", "number of seats")
	cmd.Flags().Int64Var(&zone, "zone", 0, "zone id")
	_ = cmd.MarkFlagRequired("zone")
	return cmd
}

func (a *app) tableUpdateCmd() *cobra.Command {
	var (
		capacity string
		zone     int64
		name     string
	)
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change the seats, zone or name of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			var patch floor.TablePatch
			flags := cmd.Flags()
			if flags.Changed("capacity") {
				seats, err := floor.ParseCapacity(capacity, a.cfg.CapacityCeiling)
				if err != nil {
					return err
				}
				patch.Capacity = &seats
			}
			if flags.Changed("zone") {
				patch.ZoneID = &zone
			}
			if flags.Changed("name") {
				patch.Name = &name
			}
			if !patch.Structural() {
				return errors.New("nothing to update: pass --capacity, --zone or --name")
			}
			if err := a.mgr.UpdateTable(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table %d updated\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&capacity, "capacity", "", "number of seats")
	cmd.Flags().Int64Var(&zone, "zone", 0, "zone id")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	return cmd
}

func (a *app) tableActiveCmd(use string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: use + " a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.SetTableActive(cmd.Context(), id, active); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "table %d %sd\n", id, use)
			return nil
		},
	}
}
