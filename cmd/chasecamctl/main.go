// chasecamctl: send console commands to a running chasecam
//
//	chasecamctl toeyes start_closest
//	chasecamctl bird goto 3 500
//	chasecamctl status
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/teslashibe/go-chasecam/internal/config"
	"github.com/teslashibe/go-chasecam/internal/httpc"
	"github.com/teslashibe/go-chasecam/pkg/command"
)

var (
	api     = flag.String("api", "", "chasecam API base URL (default $CHASECAM_API)")
	timeout = flag.Duration("timeout", 5*time.Second, "request timeout")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: chasecamctl [flags] status|presets|<command line>\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *api == "" {
		*api = config.APIURL()
	}

	client := httpc.NewAPI(*api)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var (
		out any
		err error
	)
	switch args := flag.Args(); args[0] {
	case "status":
		err = client.Get(ctx, "/api/status", &out)
	case "presets":
		err = client.Get(ctx, "/api/presets", &out)
	default:
		// Arguments the shell already split are quoted back so names with
		// spaces survive the server-side tokenizer.
		line := joinArgs(args)
		if _, serr := command.Split(line); serr != nil {
			fmt.Fprintln(os.Stderr, serr)
			os.Exit(2)
		}
		err = client.Post(ctx, "/api/command", map[string]string{"line": line}, &out)
	}

	if err != nil {
		var se *httpc.StatusError
		if errors.As(err, &se) {
			fmt.Fprintln(os.Stderr, se.Message)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "chasecamctl:", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func joinArgs(args []string) string {
	parts := make([]string, len(args))
	for i, a := range args {
		if strings.ContainsAny(a, " \t") {
			a = `"` + a + `"`
		}
		parts[i] = a
	}
	return strings.Join(parts, " ")
}
