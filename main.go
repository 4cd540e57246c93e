package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"AutoPageShot/config"
	"AutoPageShot/logutil"
)

func main() {
	if err := newRootCmd(config.Load()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "エラー: %v\n", err)
		os.Exit(1)
	}
}

type globalOptions struct {
	verbose bool
	logFile string
}

func newRootCmd(d config.Defaults) *cobra.Command {
	g := &globalOptions{verbose: d.Verbose, logFile: d.LogFile}
	var closeLog func() error

	root := &cobra.Command{
		Use:           "autopageshot",
		Short:         "電子書籍のページを自動でスクリーンショットして PDF にまとめます",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := logutil.Setup(g.verbose, g.logFile)
			closeLog = c
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", g.verbose, "詳細ログを出力する")
	root.PersistentFlags().StringVar(&g.logFile, "log-file", g.logFile, "ログの出力先ファイル（省略時は標準エラー）")

	root.AddCommand(newRunCmd(d), newCompileCmd(d), newTitlesCmd())
	return root
}
