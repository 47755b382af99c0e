// Package services implements the [Catalog] client for the remote song service.
//
// # Catalog Interface
//
// The player depends on two HTTP operations only:
//
//	GET  {base}/songs   → JSON array of {"_id", "name", "url"?}
//	POST {base}/upload  → multipart form with fields "file" and "name"
//
// [CatalogService] implements both over [http.Client]. No timeout is imposed on either call;
// cancellation flows through the request context.
//
// # Error Handling
//
// Every failure wraps [shared.ErrNetworkFailure]:
//   - transport errors (DNS, refused connections, cancelled contexts)
//   - non-2xx responses, with the status code in the message
//   - song lists that are not valid JSON
//
// A failed ListSongs returns no songs, so callers keep whatever list they had.
// A failed UploadSong leaves the remote catalog unchanged and is not retried.
//
// # Rate Limiting
//
// An optional [rate.Limiter] bounds the request rate across both operations,
// which keeps bulk uploads from flooding small catalog servers.
package services
