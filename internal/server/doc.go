// Package server provides HTTP routing, middleware, and a development catalog backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Catalog Handler
//
// [CatalogHandler] serves the same contract the player's catalog client speaks:
//
//   - GET /songs returns a JSON array of {_id, name}
//   - POST /upload accepts multipart fields "file" and "name"
//   - GET /media/{id} streams the stored bytes with range support
//
// Songs live in memory and are lost when the process exits.
// Point the player's media_url at {server}/media to play uploads back.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
