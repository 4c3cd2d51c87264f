// Package gmail provides the narrow Gmail API surface the digest pipeline
// needs: listing unread inbox messages, fetching their content and marking
// them as read.
//
// Fetching never fails a run because of one undecodable message: when no
// plain-text part can be extracted, the returned Message carries a
// placeholder body and records the reason in FallbackReason.
//
// Example usage:
//
//	ctx := context.Background()
//	httpClient, err := google.NewHTTPClient(ctx, tokenBlob)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := gmail.NewClient(ctx, httpClient)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ids, err := client.ListUnread(ctx, 50)
package gmail
