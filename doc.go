// Package tex2canvas converts LaTeX homework and handout sources into HTML
// that renders in the Canvas LMS rich content editor.
//
// # Quick Start
//
// Create a converter and convert a source file:
//
//	conv, err := tex2canvas.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	src, _ := os.ReadFile("hw1.tex")
//	result, err := conv.Convert(ctx, tex2canvas.Input{
//	    Source:    string(src),
//	    Name:      "hw1.tex",
//	    SourceDir: ".",
//	    OutputDir: "out",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out/hw1.html", result.HTML, 0o644)
//
// # Conversion Pipeline
//
//  1. Extraction of the preamble, the document body and \title, \author, \date
//  2. A line scanner for headings, emphasis, lists, images, equation
//     environments and TikZ figures
//  3. Block composition: paragraphs, and math rewritten to Canvas
//     equation images (/equation_images/<latex>?scale=1)
//  4. Optional rewrite of relative image sources against a base URL
//  5. The HTML shell: MathJax configuration and the selected style
//
// # Figures
//
// tikzpicture environments are compiled with pdflatex and rasterized with
// pdftocairo, or ImageMagick when pdftocairo is missing. Images are named
// <stem>_figure_<n>_<hash>.png in the output directory and reused when the
// same source is converted again. Without the toolchain a figure is kept
// as its source text and the conversion still succeeds; see
// ConvertResult.Warnings.
//
// # Configuration
//
//	conv, err := tex2canvas.NewConverter(
//	    tex2canvas.WithStyle("plain"),
//	    tex2canvas.WithFigureTimeout(time.Minute),
//	    tex2canvas.WithImageBaseURL("https://canvas.example.edu/courses/1/files"),
//	    tex2canvas.WithLogger(logrus.StandardLogger()),
//	)
package tex2canvas
