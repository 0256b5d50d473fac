/*
Package storage provides the durable document store shared by every widget process.

# Overview

The store is a plain directory (the shared container). Documents are small JSON
files and frame images addressed by logical, slash separated paths. All
operations are synchronous and safe across independent OS processes:

  - Writes go to a temp file in the target directory and are renamed into
    place, so readers never observe a half-written document.
  - Nothing is cached in memory; a peer may have written since the last read.
  - There are no locks. Concurrent read-modify-write cycles resolve as
    last-writer-wins for the whole document.

# Errors

  - ErrNotFound: missing document, callers substitute a default
  - ErrDecode: corrupt document, treated like ErrNotFound
  - *IOError: permission or disk failure, logged by callers

# Usage

	store, err := storage.NewFileStore("/var/lib/aniwidgets/group")
	if err != nil {
	    return err
	}

	var reg types.FeaturedRegistry
	if err := storage.ReadJSON(ctx, store, paths.FeaturedConfig, &reg); storage.IsRecoverable(err) {
	    reg = *types.NewFeaturedRegistry()
	}
*/
package storage
