package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/docsieve/docsieve/internal/filter"
)

var queryCmd = &cobra.Command{
	Use:   "query [rules.json]",
	Short: "Render a JSON rule list as backend query parameters",
	Long:  `query reads a filter rule list in the server's JSON wire format (from a file or stdin), normalizes it to structured state, and prints the resulting document-list query parameters.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	defaults, err := cfg.FilterDefaults()
	if err != nil {
		return err
	}

	var data []byte
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("read rules: %w", err)
	}

	rules, err := filter.DecodeRules(data)
	if err != nil {
		return fmt.Errorf("decode rules: %w", err)
	}

	state, diags := filter.FromRules(rules, defaults)
	for _, d := range diags {
		log.Printf("warning: %s", d.Detail)
	}

	items, err := filter.EncodeQuery(state.Rules())
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}
	for _, item := range items {
		fmt.Printf("%s=%s\n", item.Name, item.Value)
	}
	fmt.Printf("ordering=%s\n", state.OrderingValue())

	return nil
}
