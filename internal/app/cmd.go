package app

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// Command はcartifyバイナリのサブコマンド。
type Command string

const (
	// CommandServe はAPIサーバーを起動する。引数なしの場合もこれになる。
	CommandServe Command = "serve"
	// CommandMigrate はPostgreSQLバックエンドのdocumentsスキーマを適用する。
	CommandMigrate Command = "migrate"
	// CommandHealthcheck は起動中サーバーの/healthを叩く。distrolessイメージのHEALTHCHECK用。
	CommandHealthcheck Command = "healthcheck"
)

var commandSummaries = map[Command]string{
	CommandServe:       "start the HTTP API (default)",
	CommandMigrate:     "apply database migrations (STORE_BACKEND=postgres)",
	CommandHealthcheck: "probe GET /health on the local server",
}

// Invocation は解析済みのコマンドライン。
type Invocation struct {
	Command Command
	// Port はhealthcheckの接続先ポート。空ならPORT環境変数か既定値を使う。
	Port string
}

// ParseCommand はos.Args[1:]からサブコマンドとフラグを解析する。
// 未知のサブコマンドはエラーにする。
func ParseCommand(args []string) (Invocation, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return Invocation{Command: CommandServe}, nil
	}

	cmd := Command(args[0])
	if _, ok := commandSummaries[cmd]; !ok {
		return Invocation{}, fmt.Errorf("unknown command %q (available: %s)", args[0], strings.Join(commandNames(), ", "))
	}

	inv := Invocation{Command: cmd}
	if cmd != CommandHealthcheck {
		return inv, nil
	}

	fs := flag.NewFlagSet(string(cmd), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&inv.Port, "port", "", "port of the running server")
	if err := fs.Parse(args[1:]); err != nil {
		return Invocation{}, fmt.Errorf("invalid %s flags: %w", cmd, err)
	}
	return inv, nil
}

// healthcheckPort は--port、PORT、既定値の順でポートを決める。
func (inv Invocation) healthcheckPort() string {
	if inv.Port != "" {
		return inv.Port
	}
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "5000"
}

// Usage はサブコマンド一覧を書き出す。
func Usage(w io.Writer) {
	fmt.Fprintln(w, "usage: cartify [command]")
	for _, name := range commandNames() {
		fmt.Fprintf(w, "  %-12s %s\n", name, commandSummaries[Command(name)])
	}
}

func commandNames() []string {
	names := make([]string, 0, len(commandSummaries))
	for cmd := range commandSummaries {
		names = append(names, string(cmd))
	}
	sort.Strings(names)
	return names
}
