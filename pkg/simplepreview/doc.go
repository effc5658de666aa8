// Package simplepreview resolves how to render a file in a viewer given
// nothing but its opaque identifier and display name.
//
// The engine owns a single preview slot. Opening a ViewRequest classifies
// the file by extension, decides whether a server-side format conversion is
// needed, drives the asynchronous conversion round trip, and exposes the
// result as a PreviewState that a renderer turns into a concrete
// presentation surface. Requests supersede each other: a conversion result
// that arrives after its request was replaced is discarded and its artifact
// released without ever being exposed ("latest request wins").
//
// The package performs no document parsing itself; it only asks the remote
// conversion collaborator for a renderable artifact and manages the
// lifecycle of the client-local handle wrapping it.
package simplepreview
