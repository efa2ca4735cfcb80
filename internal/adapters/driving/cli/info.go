package cli

import (
	"os"
	"runtime"
	"time"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Log system information",
	Long:  `Write the system time, Go version and executable path to the process log.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, _ []string) error {
	s, err := requireServices()
	if err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}

	lines := []string{
		"System Time: " + time.Now().Format(time.RFC3339),
		"Go Version: " + runtime.Version(),
		"Executable: " + exe,
	}
	for _, l := range lines {
		if s.ProcessLog != nil {
			s.ProcessLog.Info(l)
		}
		cmd.Println(l)
	}
	if s.Logs != nil {
		cmd.Printf("Logs: %s\n", s.Logs.Dir())
	}
	return nil
}
