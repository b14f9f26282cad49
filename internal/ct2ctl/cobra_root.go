package ct2ctl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// buildRootCmd constructs the Cobra command tree wired to the action
// functions in this package.
func buildRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ct2ctl",
		Short:         "Build and test utilities for the ct2d daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("log-level", envStr("CT2CTL_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if f := cmd.InheritedFlags().Lookup("log-level"); f != nil {
			if v := f.Value.String(); v != "" {
				SetLogLevel(v)
			}
		}
	}

	// install group
	installCmd := &cobra.Command{Use: "install", Short: "Install dependencies and build the native engine", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("install requires a subcommand: shim|shim:cuda|go")
	}}
	installShimCmd := &cobra.Command{Use: "shim", Short: "Build CTranslate2 and the C shim (CPU)", Example: "  ct2ctl install shim", RunE: func(cmd *cobra.Command, args []string) error { return installShim(false) }}
	installShimCUDA := &cobra.Command{Use: "shim:cuda", Short: "Build CTranslate2 and the C shim with CUDA", RunE: func(cmd *cobra.Command, args []string) error { return installShim(true) }}
	installGoCmd := &cobra.Command{Use: "go", Short: "Download Go modules", Example: "  ct2ctl install go", RunE: func(cmd *cobra.Command, args []string) error { return installGo() }}
	installCmd.AddCommand(installShimCmd, installShimCUDA, installGoCmd)
	root.AddCommand(installCmd)

	// test group
	testCmd := &cobra.Command{Use: "test", Short: "Run tests", RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("test requires a subcommand: go|native")
	}}
	testGo := &cobra.Command{Use: "go", Short: "Run the stub-build test suite", RunE: func(cmd *cobra.Command, args []string) error { return runGoTests() }}
	testNative := &cobra.Command{Use: "native", Short: "Run the test suite against the native engine", RunE: func(cmd *cobra.Command, args []string) error { return runNativeTests() }}
	testCmd.AddCommand(testGo, testNative)
	root.AddCommand(testCmd)

	// smoke
	smokeCmd := &cobra.Command{Use: "smoke", Short: "Build, start and probe a local daemon", Example: "  ct2ctl smoke\n  ct2ctl smoke --models-dir ~/models/ct2", RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("models-dir")
		return runSmoke(dir)
	}}
	smokeCmd.Flags().String("models-dir", "", "Models directory served by the daemon (default: ~/models/ct2 when present)")
	root.AddCommand(smokeCmd)

	// completion command
	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(os.Stdout) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(os.Stdout, true) }})
	root.AddCommand(completionCmd)

	return root
}

// Execute runs the CLI.
func Execute() error { return buildRootCmd().Execute() }
