// Package http provides the REST surface of the Duck OS backend.
//
// Handlers are thin: they bind and validate requests, call into the
// kernel, VFS and session managers, and map domain errors to HTTP
// status codes. Unknown-id window commands return success=false with
// 200 because the kernel treats them as no-ops; VFS errors carry real
// status codes (404 not found, 409 conflict, 422 invalid operation).
package http
