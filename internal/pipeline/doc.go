// Package pipeline implements the LaTeX-to-Canvas HTML conversion stages.
//
// The stages run in order for each document:
//   - Extract splits the source into preamble, header fields and body lines
//   - Scanner walks the body line by line: comments and alt annotations,
//     headings, nested lists, equation environments and TikZ figures
//   - Compose groups the emitted lines into blocks, rewrites math into
//     Canvas equation images and wraps narrative text in paragraphs
//   - RewriteImageSources optionally points relative images at a file host
//
// Figure rasterization is delegated to a FigureRenderer (see package
// figure). Wrapping the body in a full HTML document is handled by the
// root tex2canvas package.
package pipeline
