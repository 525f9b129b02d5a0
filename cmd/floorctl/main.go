// Command floorctl manages the zones and tables of a floor backend from the
// terminal. Every change goes through floor.Manager, so the same rules apply
// as on the floor screens.
package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/config"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/floor"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/remote"
	"github.com/Fernando200519/Restaurante-Gerente-Web-sub000/utils"
)

type app struct {
	cfg    *config.ClientConfig
	client *remote.Client
	mgr    *floor.Manager
	log    *logrus.Logger

	apiURL   string
	token    string
	envFile  string
	initLogs bool
}

func main() {
	if err := newRootCmd(&app{initLogs: true}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:               "floorctl",
		Short:             "Manage restaurant zones and tables",
		SilenceUsage:      true,
		PersistentPreRunE: a.connect,
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "backend URL (overrides FLOOR_API_URL)")
	root.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (overrides FLOOR_TOKEN)")
	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load instead of .env")

	root.AddCommand(a.zonesCmd(), a.tablesCmd(), a.statsCmd())
	return root
}

// connect loads the client config, logs in when no token is configured and
// fetches the floor once.
func (a *app) connect(cmd *cobra.Command, _ []string) error {
	var files []string
	if a.envFile != "" {
		files = append(files, a.envFile)
	}
	cfg, err := config.LoadClient(files...)
	if err != nil {
		return err
	}
	if a.apiURL != "" {
		cfg.APIURL = strings.TrimRight(a.apiURL, "/")
	}
	if a.token != "" {
		cfg.Token = a.token
	}
	if a.initLogs {
		utils.InitLogger(cfg.Log)
	}
	a.cfg = cfg
	a.log = utils.InfoLogger

	ctx := cmd.Context()
	a.client = remote.New(cfg.APIURL, cfg.Token, cfg.Timeout, a.log)
	if cfg.Token == "" {
		if cfg.Email == "" {
			return errors.New("no credentials: set FLOOR_TOKEN or FLOOR_EMAIL and FLOOR_PASSWORD")
		}
		if _, err := a.client.Login(ctx, cfg.Email, cfg.Password); err != nil {
			return fmt.Errorf("login: %w", err)
		}
	}

	a.mgr = floor.NewManager(a.client,
		floor.WithLogger(a.log),
		floor.WithBatchLimit(cfg.BatchLimit),
		floor.WithCapacityCeiling(cfg.CapacityCeiling),
	)
	return a.mgr.Refresh(ctx)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, s := range args {
		id, err := parseID(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
