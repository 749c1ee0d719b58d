package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	verbose      bool
	boardPath    string
	maxBoardSize int
	apiURL       string
	apiToken     string
	username     string
	password     string
	boardID      string
	solutionID   string
	skipVerify   bool

	rootCmd = &cobra.Command{
		Use:           "flowctl",
		Short:         "Verify and submit flow-board puzzle solutions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(os.Stderr)
			logrus.SetLevel(logrus.WarnLevel)
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	verifyCmd = &cobra.Command{
		Use:   "verify --board <board file> [solution file...]",
		Short: "Check a board and its solutions offline (JSON or YAML)",
		RunE:  runVerify,
	}

	submitCmd = &cobra.Command{
		Use:   "submit --board-id <id> <solution file>",
		Short: "Create or update a solution through the API",
		Args:  cobra.ExactArgs(1),
		RunE:  runSubmit,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	verifyCmd.Flags().StringVarP(&boardPath, "board", "b", "", "board file (.json, .yaml or .yml)")
	verifyCmd.Flags().IntVar(&maxBoardSize, "max-size", 0, "maximum rows/columns (default 30)")
	_ = verifyCmd.MarkFlagRequired("board")

	submitCmd.Flags().StringVar(&apiURL, "api", envOr("FLOW_API_URL", "http://localhost:8080"), "API base URL")
	submitCmd.Flags().StringVar(&apiToken, "token", os.Getenv("FLOW_API_TOKEN"), "JWT token")
	submitCmd.Flags().StringVarP(&username, "user", "u", "", "username (used when no token is given)")
	submitCmd.Flags().StringVarP(&password, "password", "p", "", "password")
	submitCmd.Flags().StringVar(&boardID, "board-id", "", "board ID (defaults to board_id in the solution file)")
	submitCmd.Flags().StringVar(&solutionID, "solution-id", "", "existing solution to update")
	submitCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "do not verify locally before submitting")

	rootCmd.AddCommand(verifyCmd, submitCmd)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
