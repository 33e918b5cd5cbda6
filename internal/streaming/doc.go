/*
Package streaming copies response bodies to slow or vanishing clients without
holding a handler forever.

The server runs without a global write timeout because full-size originals
can take a long time to reach a client on a poor link. Copy bounds every
chunk instead: each chunk gets its own write deadline, so a client that keeps
reading is never cut off while a client that stalls is dropped after
WriteTimeout.

	img, err := media.Serve(h.images, req)
	...
	n, err := streaming.Copy(r.Context(), w, img.Body, streaming.DefaultConfig())
	if err != nil && !errors.Is(err, streaming.ErrClientGone) {
		logging.Warn("transfer of %s failed after %d bytes: %v", r.URL.Path, n, err)
	}

Deadlines are set through http.ResponseController. Writers that do not
support deadlines, such as httptest.ResponseRecorder, are written to
without one.

# Errors

  - ErrClientGone: the request context ended before the body was sent
  - ErrWriteTimeout: a chunk missed its deadline, or MaxDuration was exceeded
*/
package streaming
