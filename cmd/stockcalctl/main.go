// Command stockcalctl runs operator tasks against a running stockcal server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"google.golang.org/grpc"

	grpcadapter "github.com/simaogato/stockcal-backend/internal/adapter/grpc"
)

// errInconsistent makes reconcile exit non-zero when the ledger has discrepancies
var errInconsistent = errors.New("ledger is inconsistent")

var exitFunc = os.Exit

// api is the subset of the client the commands use
type api interface {
	Reconcile(ctx context.Context, in *grpcadapter.ReconcileRequest, opts ...grpc.CallOption) (*grpcadapter.ReconcileResponse, error)
	ExportHistory(ctx context.Context, in *grpcadapter.ExportHistoryRequest, opts ...grpc.CallOption) (*grpcadapter.ExportHistoryResponse, error)
	GetInventorySummary(ctx context.Context, in *grpcadapter.GetInventorySummaryRequest, opts ...grpc.CallOption) (*grpcadapter.GetInventorySummaryResponse, error)
}

const usage = `usage: stockcalctl [-addr host:port] [-timeout d] <command> [flags]

commands:
  reconcile            replay the ledger and report discrepancies
  export [-encoding e] write the ledger as CSV (utf-8 or euc-kr) to the export store
  summary              print stock totals per category
`

func main() {
	exitFunc(run(os.Args[1:], os.Stdout, os.Stderr, dial))
}

func dial(addr string) (api, io.Closer, error) {
	conn, err := grpcadapter.Dial(addr)
	if err != nil {
		return nil, nil, err
	}
	return grpcadapter.NewClient(conn), conn, nil
}

func run(args []string, stdout, stderr io.Writer, connect func(string) (api, io.Closer, error)) int {
	fs := flag.NewFlagSet("stockcalctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	addr := fs.String("addr", envOr("STOCKCAL_ADDR", "localhost:8080"), "server address")
	timeout := fs.Duration("timeout", 30*time.Second, "request timeout")
	asJSON := fs.Bool("json", false, "print raw JSON responses")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	client, closer, err := connect(*addr)
	if err != nil {
		fmt.Fprintf(stderr, "connect %s: %v\n", *addr, err)
		return 1
	}
	defer closer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "reconcile":
		err = reconcile(ctx, client, stdout, *asJSON)
	case "export":
		err = exportHistory(ctx, client, cmdArgs, stdout, stderr, *asJSON)
	case "summary":
		err = summary(ctx, client, stdout, *asJSON)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInconsistent):
		return 3
	default:
		fmt.Fprintf(stderr, "%s: %v\n", cmd, err)
		return 1
	}
}

func reconcile(ctx context.Context, client api, out io.Writer, asJSON bool) error {
	report, err := client.Reconcile(ctx, &grpcadapter.ReconcileRequest{})
	if err != nil {
		return err
	}

	if asJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "checked %d items, %d entries\n", report.ItemsChecked, report.EntriesChecked)
		if len(report.Discrepancies) > 0 {
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KIND\tITEM\tEXPECTED\tACTUAL\tDETAILS")
			for _, d := range report.Discrepancies {
				name := d.ItemName
				if name == "" {
					name = d.ItemID
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Kind, name, d.Expected, d.Actual, d.Details)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
		}
	}

	if !report.Consistent {
		return errInconsistent
	}
	if !asJSON {
		fmt.Fprintln(out, "ledger is consistent")
	}
	return nil
}

func exportHistory(ctx context.Context, client api, args []string, out, stderr io.Writer, asJSON bool) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	encoding := fs.String("encoding", "utf-8", "file encoding: utf-8 or euc-kr")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := client.ExportHistory(ctx, &grpcadapter.ExportHistoryRequest{Encoding: *encoding})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, resp)
	}
	fmt.Fprintf(out, "wrote %d rows (%d bytes, %s) to %s\n", resp.Rows, resp.Size, resp.Encoding, resp.URL)
	return nil
}

func summary(ctx context.Context, client api, out io.Writer, asJSON bool) error {
	resp, err := client.GetInventorySummary(ctx, &grpcadapter.GetInventorySummaryRequest{})
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, resp)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tITEMS\tSTOCK")
	for _, c := range resp.Categories {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Category, c.Items, c.TotalStock)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, item := range resp.NegativeStock {
		fmt.Fprintf(out, "negative stock: %s (%s %s)\n", item.Name, item.CurrentStock, item.Unit)
	}
	return nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
