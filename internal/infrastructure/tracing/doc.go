/*
Package tracing provides lightweight request tracing.

# Overview

Every HTTP request gets a trace id and a span; clients that pass
X-Trace-ID join their requests into one trace. Completed spans are
logged through zap, which is enough to correlate a slow file operation
or window command with its originating request.

# Usage

	tracer := tracing.New("backend", logger)
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "operation")
	defer func() {
		span.Finish()
		tracer.Submit(span)
	}()

# Trace Format

Traces use standard HTTP headers for propagation:
  - X-Trace-ID: Unique identifier for the entire request flow
  - X-Span-ID: Identifier for the current operation

# Performance

Span collection is buffered (1000 spans) and processed off the request
path; when the buffer is full, spans are dropped rather than blocking.
*/
package tracing
