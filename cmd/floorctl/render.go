package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var stateStyles = map[floor.TableState]lipgloss.Style{
	floor.StateFree:         okStyle,
	floor.StateOccupied:     warnStyle,
	floor.StateAwaitingBill: errStyle,
	floor.StateGrouped:      lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
	floor.StateInactive:     dimStyle,
}

func renderTable(w io.Writer, headers []string, rows [][]string) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func renderZones(w io.Writer, entries []floor.ZoneEntry) {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		id := "-"
		if !e.Virtual || e.Zone.ID != 0 {
			id = strconv.FormatInt(e.Zone.ID, 10)
		}
		status := string(e.Zone.Status)
		if e.Zone.Status == floor.ZoneInactive {
			status = warnStyle.Render("closed")
		}
		rows = append(rows, []string{id, e.Zone.Name, status, strconv.Itoa(e.Tables)})
	}
	renderTable(w, []string{"ID", "ZONE", "STATUS", "TABLES"}, rows)
}

func renderTableViews(w io.Writer, views []floor.TableView) {
	rows := make([][]string, 0, len(views))
	for _, v := range views {
		state := stateStyles[v.State].Render(string(v.State))
		if v.ZoneClosed {
			state += dimStyle.Render(" (zone closed)")
		}
		var elapsed, total, alerts string
		if v.Elapsed > 0 {
			elapsed = v.Elapsed.String()
		}
		if v.Total > 0 {
			total = utils.FormatAmount(v.Total)
		}
		if v.AlertCount > 0 {
			alerts = errStyle.Render(strconv.Itoa(v.AlertCount))
		}
		group := v.Group
		if group != "" && v.Primary {
			group += " *"
		}
		rows = append(rows, []string{
			strconv.FormatInt(v.ID, 10), v.Name, strconv.Itoa(v.Capacity), v.Zone,
			state, elapsed, total, alerts, group,
		})
	}
	renderTable(w, []string{"ID", "TABLE", "SEATS", "ZONE", "STATE", "ELAPSED", "TOTAL", "READY", "GROUP"}, rows)
}

func renderBatch(w io.Writer, verb string, res floor.BatchResult) {
	for _, it := range res {
		if it.Err != nil {
			fmt.Fprintf(w, "%s table %d: %s\n", errStyle.Render("✗"), it.ID, it.Err)
			continue
		}
		fmt.Fprintf(w, "%s table %d %s\n", okStyle.Render("✓"), it.ID, verb)
	}
}
