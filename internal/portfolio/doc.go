// Package portfolio assembles the portfolio entries shown by the site from
// the content documents under the content root.
//
// A Loader reads from an fs.FS, so the same code serves a directory on disk
// (os.DirFS) and an embedded bundle. Loading is error tolerant: a document
// that cannot be read or rendered is left out and reported, the rest of the
// portfolio still loads.
package portfolio
