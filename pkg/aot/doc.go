// Package aot provides types, interfaces, and helpers for working with the
// Array of Things API.
//
// # Overview
//
// The aot package defines the response envelope (Page, Response, Record), the
// query filter builder (FilterSet) and the interfaces of the resource clients
// (ProjectsClient, NodesClient, SensorsClient, ObservationsClient,
// MetricsClient). A concrete implementation is provided by the aotclient
// package, which wires configuration and transport.
//
// Getting a client
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
//	  cli, err := aotclient.NewDefault(ctx)
//	  if err != nil { log.Fatal(err) }
//
//	  chicago, err := cli.Projects().Get(ctx, "chicago")
//	  if err != nil { log.Fatal(err) }
//	  _ = chicago.Data()
//	}
//
// # Filters
//
// A FilterSet collects field constraints. And appends constraints to a field,
// Or replaces them:
//
//	f := aot.NewFilter("age", aot.OpGt, 21)
//	f.AndFilter("age", aot.OpLt, 65)       // age[]=gt:21&age[]=lt:65
//	f.OrFilter("name", aot.OpEq, "vince")  // name=eq:vince
//
// # Pagination
//
// List calls return the first Page. Pages walks the collection lazily,
// issuing one request per page and stopping at the first empty page:
//
//	first, err := cli.Observations().List(ctx, aot.NewFilter("size", 100))
//	if err != nil { /* handle error */ }
//
//	for page, err := range first.Pages().Seq(ctx) {
//	  if err != nil { /* handle error */ }
//	  handle(page.Data())
//	}
//
// # Errors
//
// Error statuses are surfaced as *APIError. IsNotFound, IsBadRequest and
// IsServerError make it easy to branch on common cases.
package aot
