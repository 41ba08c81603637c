package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "1 つの質問を非対話で実行する",
	Long: `ask は質問を 1 回だけ処理して結果を標準出力へ書き、終了する。

Examples:
  pgassist ask "how many tables are in the database?"
  pgassist ask create a database named analytics`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	a, err := buildApp(false)
	if err != nil {
		return err
	}
	defer a.client.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out, err := a.bridge.Answer(ctx, question)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "関数: %s\n", out.Function)
	fmt.Println(out.Text)
	if out.IsError {
		return fmt.Errorf("server reported an error")
	}
	return nil
}
