package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/docopt/docopt-go"

	"CollabCanvas/internal/api"
	"CollabCanvas/internal/discover"
	"CollabCanvas/internal/export"
	"CollabCanvas/internal/state"
	"CollabCanvas/internal/ui"
)

const Version = "0.1.0"

var Out *log.Logger
var Err *log.Logger

func init() {
	Out = log.New(os.Stdout, "", 0)
	Err = log.New(os.Stderr, "", log.Ldate|log.Ltime)
}

func main() {
	usage := `Collaborative canvas client.

When --server is omitted the client browses the local network for a canvas
server over mDNS.

Usage:
    collabcanvas join <canvas_id> [--server=<url>] [--token=<token>]
    collabcanvas list [--server=<url>] [--token=<token>]
    collabcanvas create <name> [--server=<url>] [--token=<token>]
    collabcanvas delete <canvas_id> [--server=<url>] [--token=<token>]
    collabcanvas share <canvas_id> <email> [--server=<url>] [--token=<token>]
    collabcanvas export <canvas_id> <pdf_path> [--server=<url>] [--token=<token>]
    collabcanvas advertise <port>

Options:
    -h --help          Show this screen.
    --version          Show version.
    --server=<url>     Canvas server base URL, e.g. http://localhost:5000
    --token=<token>    Bearer token for the canvas store.`

	opts, err := docopt.ParseArgs(usage, os.Args[1:], Version)
	if err != nil {
		panic(err)
	}

	if join_, _ := opts.Bool("join"); join_ {
		join(opts)
	} else if list_, _ := opts.Bool("list"); list_ {
		list(opts)
	} else if create_, _ := opts.Bool("create"); create_ {
		create(opts)
	} else if delete_, _ := opts.Bool("delete"); delete_ {
		deleteCanvas(opts)
	} else if share_, _ := opts.Bool("share"); share_ {
		share(opts)
	} else if export_, _ := opts.Bool("export"); export_ {
		exportCanvas(opts)
	} else if advertise_, _ := opts.Bool("advertise"); advertise_ {
		advertise(opts)
	}
}

// serverURL resolves the configured server, falling back to mDNS discovery.
func serverURL(opts docopt.Opts) string {
	if url, _ := opts.String("--server"); url != "" {
		return url
	}
	Out.Printf("no --server given, browsing the local network...")
	addr, err := discover.Lookup(3 * time.Second)
	if err != nil {
		Err.Fatalf("discover: %v", err)
	}
	Out.Printf("found canvas server at %s", addr)
	return "http://" + addr
}

func client(opts docopt.Opts) *api.Client {
	token, _ := opts.String("--token")
	return api.NewClient(serverURL(opts)+"/api", token)
}

func join(opts docopt.Opts) {
	canvasID, _ := opts.String("<canvas_id>")
	token, _ := opts.String("--token")

	err := ui.Run(ui.Config{
		ServerURL: serverURL(opts),
		Token:     token,
		CanvasID:  canvasID,
		Title:     "CollabCanvas - " + canvasID,
	})
	if err != nil {
		Err.Fatalf("join: %v", err)
	}
}

func list(opts docopt.Opts) {
	canvases, err := client(opts).Canvases(context.Background())
	if err != nil {
		Err.Fatalf("list: %v", err)
	}
	for _, cv := range canvases {
		Out.Printf("%s  %-24s  %d collaborators  modified %s",
			cv.CanvasID, cv.Name, len(cv.Collaborators),
			cv.LastModified.Format(time.RFC3339))
	}
}

func create(opts docopt.Opts) {
	name, _ := opts.String("<name>")
	cv, err := client(opts).CreateCanvas(context.Background(), name)
	if err != nil {
		Err.Fatalf("create: %v", err)
	}
	Out.Printf("created %s (%s)", cv.CanvasID, cv.Name)
}

func deleteCanvas(opts docopt.Opts) {
	canvasID, _ := opts.String("<canvas_id>")
	if err := client(opts).DeleteCanvas(context.Background(), canvasID); err != nil {
		Err.Fatalf("delete: %v", err)
	}
	Out.Printf("deleted %s", canvasID)
}

func share(opts docopt.Opts) {
	canvasID, _ := opts.String("<canvas_id>")
	email, _ := opts.String("<email>")
	cv, err := client(opts).AddCollaborator(context.Background(), canvasID, email)
	if err != nil {
		Err.Fatalf("share: %v", err)
	}
	Out.Printf("%s now has %d collaborators", cv.CanvasID, len(cv.Collaborators))
}

// advertise announces a canvas server on the LAN so other clients can find
// it with plain `collabcanvas join`.
func advertise(opts docopt.Opts) {
	portStr, _ := opts.String("<port>")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		Err.Fatalf("advertise: bad port %q", portStr)
	}

	server, err := discover.Advertise(port)
	if err != nil {
		Err.Fatalf("advertise: %v", err)
	}
	defer server.Shutdown()

	ip, err := discover.OutgoingIP()
	if err != nil {
		Err.Fatalf("advertise: %v", err)
	}
	Out.Printf("announcing canvas server at %s:%d, ctrl-c to stop", ip, port)
	select {}
}

func exportCanvas(opts docopt.Opts) {
	canvasID, _ := opts.String("<canvas_id>")
	pdfPath, _ := opts.String("<pdf_path>")

	data, err := client(opts).Snapshot(context.Background(), canvasID)
	if err != nil {
		Err.Fatalf("export: %v", err)
	}
	c := state.NewCanvas()
	c.ReplaceAll(data.Elements, data.Background)
	if err := export.PDF(pdfPath, c); err != nil {
		Err.Fatalf("export: %v", err)
	}
	Out.Printf("wrote %s (%d elements)", pdfPath, c.Len())
}
