package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timeguardian/timeguardian/internal/reporter"
)

var (
	reportJSON bool
	clearYes   bool
)

var reportCmd = &cobra.Command{
	Use:       "report [day|week|month]",
	Short:     "Generate a visibility report",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"day", "today", "week", "month"},
	RunE:      runReport,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear all visibility samples from the database",
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(reportCmd, clearCmd)

	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "output as JSON")
	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "do not ask for confirmation")
}

func runReport(_ *cobra.Command, args []string) error {
	periodType := "day"
	if len(args) > 0 {
		periodType = args[0]
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	rep := reporter.New(cfg, repo)
	report, err := rep.GenerateReport(periodType)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if reportJSON {
		jsonStr, err := rep.FormatReportJSON(report)
		if err != nil {
			return err
		}
		fmt.Println(jsonStr)
		return nil
	}

	fmt.Println(rep.FormatReportText(report))
	return nil
}

func runClear(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !clearYes {
		fmt.Print("This will delete all visibility data. Are you sure? (yes/no): ")
		response, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "yes" && response != "y" {
			fmt.Println("Operation cancelled")
			return nil
		}
	}

	db, repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Clear(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}

	fmt.Println("Database cleared successfully")
	return nil
}
