package cmd

import (
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsieve/docsieve/internal/core/config"
	coredb "github.com/docsieve/docsieve/internal/core/db"
	"github.com/docsieve/docsieve/internal/filter"
	"github.com/docsieve/docsieve/internal/views"
)

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Manage the local saved-view cache",
}

var viewsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Replace the local cache with the server's saved views",
	Args:  cobra.NoArgs,
	RunE:  runViewsSync,
}

var viewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached saved views",
	Args:  cobra.NoArgs,
	RunE:  runViewsList,
}

var viewsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a cached saved view and its query parameters",
	Args:  cobra.ExactArgs(1),
	RunE:  runViewsShow,
}

func init() {
	viewsCmd.AddCommand(viewsSyncCmd)
	viewsCmd.AddCommand(viewsListCmd)
	viewsCmd.AddCommand(viewsShowCmd)
	rootCmd.AddCommand(viewsCmd)
}

// openStore opens the cache database, migrates it, and wraps it in a Store.
// The returned closer releases the connection.
func openStore(cfg *config.Config) (*views.Store, func(), error) {
	conn, err := coredb.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open cache database: %w", err)
	}
	if err := coredb.MigrateUp(conn); err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("migrate cache database: %w", err)
	}
	q, err := coredb.LoadQueries(conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}
	return views.NewStore(q), func() { conn.Close() }, nil
}

func runViewsSync(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	token, err := config.APIToken()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	client := views.NewClient(cfg.ServerURL, token, cfg.RequestTimeout)
	remote, err := client.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetch saved views: %w", err)
	}

	if err := store.ReplaceAll(remote, time.Now()); err != nil {
		return fmt.Errorf("update cache: %w", err)
	}

	log.Printf("synced %d saved views from %s", len(remote), cfg.ServerURL)
	return nil
}

func runViewsList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	cached, err := store.List()
	if err != nil {
		return err
	}
	for _, v := range cached {
		fmt.Printf("%4d  %-32s  rules=%d dashboard=%v sidebar=%v\n",
			v.ID, v.Name, len(v.FilterRules), v.ShowOnDashboard, v.ShowInSidebar)
	}
	return nil
}

func runViewsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defaults, err := cfg.FilterDefaults()
	if err != nil {
		return err
	}

	id, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid view id %q", args[0])
	}

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	v, err := store.Get(uint(id))
	if err != nil {
		return err
	}

	state, diags := v.ToState(defaults)
	for _, d := range diags {
		log.Printf("warning: %s", d.Detail)
	}

	fmt.Printf("%s (id %d)\n", v.Name, v.ID)
	items, err := filter.EncodeQuery(state.Rules())
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	for _, item := range items {
		fmt.Printf("  %s=%s\n", item.Name, item.Value)
	}
	fmt.Printf("  ordering=%s\n", state.OrderingValue())

	return nil
}
