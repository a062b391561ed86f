// Package client provides an HTTP client for the retrieval backend.
//
// The backend exposes two collaborators:
//
//   - the search service (/api/search): streaming and direct queries,
//     sessions, conversation history, suggestions and health
//   - the file service (/api/file): upload, list, processing status,
//     details, rename and delete
//
// Every JSON response carries a {"success": bool, "message": string}
// envelope. A response with success == false or a non-2xx status is returned
// as *Error; use AsError to inspect it.
//
// Example:
//
//	c := client.New(client.WithBaseURL("http://localhost:5000"))
//	events, errs := c.Search.Stream(ctx, "What is shown in figure 3?", sessionID)
//	for ev := range events {
//	    fmt.Println(ev.Type)
//	}
//	if err := <-errs; err != nil {
//	    log.Fatal(err)
//	}
package client
