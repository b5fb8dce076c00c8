// Package handlers provides the HTTP surface of the GIF viewer.
//
// It includes handlers for:
//   - Paginated listings: everything, by owner, by year and search results
//   - OpenSearch description and prefix suggestions
//   - Poster thumbnails and the GIF and static file servers
//   - Health, readiness, version and metrics endpoints
//
// Listings are rendered with html/template. Unknown owners, years and
// routes render the same listing template as an empty "Not Found" page
// with status 404.
package handlers
