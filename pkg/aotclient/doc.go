// Package aotclient provides the primary entry point for constructing an
// Array of Things API client that implements the aot.Client interface.
//
// It normalizes configuration and wires the HTTP transport on top of the
// resource interfaces and types defined in the aot package. Most applications
// import aotclient to build a client, then use the returned aot.Client to
// reach the resource clients: Projects(), Nodes(), Sensors(), Observations()
// and Metrics().
//
// Quick start
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/aot-client/pkg/aot"
//	  "github.com/fivetwenty-io/aot-client/pkg/aotclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//
//	  // The public API.
//	  cli, err := aotclient.NewDefault(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  // Or a custom host; the scheme defaults to https.
//	  cli, err = aotclient.New(ctx, &aot.Config{
//	    APIEndpoint: "aot.example.org/api",
//	    RetryMax:    3,
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  filters := aot.NewFilter(aot.FieldProject, aot.OpEq, "chicago")
//
//	  page, err := cli.Nodes().List(ctx, filters)
//	  if err != nil { log.Fatal(err) }
//
//	  for record, err := range page.Pages().Records(ctx) {
//	    if err != nil { log.Fatal(err) }
//	    log.Println(record["vsn"])
//	  }
//	}
//
// Retries
//
// The transport does not retry by default. Set Config.RetryMax to retry
// connection errors, 429 and 5xx responses with exponential backoff bounded
// by RetryWaitMin and RetryWaitMax.
package aotclient
