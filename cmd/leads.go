package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/company-enrich/internal/sheet"
	"github.com/sells-group/company-enrich/pkg/notion"
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "Manage the Notion lead queue",
}

var leadsPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Queue inputs from a file as Notion lead pages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("leads"); err != nil {
			return err
		}

		file, _ := cmd.Flags().GetString("file")
		override, _ := cmd.Flags().GetString("notion-db")
		ncfg := notionConfig()
		dbID, err := ncfg.LeadDatabase(override)
		if err != nil {
			return eris.Wrap(err, "--notion-db or notion.lead_db is required")
		}
		nc, err := notion.NewClient(ncfg)
		if err != nil {
			return err
		}

		inputs, err := sheet.ReadFile(file)
		if err != nil {
			return err
		}

		created, err := notion.PushLeads(ctx, nc, dbID, inputs)
		zap.L().Info("leads pushed", zap.Int("created", created), zap.Int("inputs", len(inputs)))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d leads queued\n", created)
		return nil
	},
}

func init() {
	leadsPushCmd.Flags().String("file", "", "xlsx, csv or txt file of inputs")
	_ = leadsPushCmd.MarkFlagRequired("file")
	leadsPushCmd.Flags().String("notion-db", "", "Notion lead database ID (default notion.lead_db)")

	leadsCmd.AddCommand(leadsPushCmd)
	rootCmd.AddCommand(leadsCmd)
}
