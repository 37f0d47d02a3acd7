// Package assets provides the HTML document shell and stylesheets that
// wrap converted course pages.
//
// Assets come from layers. A Layer reads one fs.FS: the set compiled into
// the binary, or a course directory given with --asset-path style options.
// A Stack queries its layers in order and returns the first hit, so a
// course directory may override only canvas.css and keep the built-in
// document shell.
//
//	{basePath}/
//	├── styles/{name}.css       page stylesheet
//	└── templates/{name}.html   html/template shell receiving a Page
//
// Names are plain identifiers ([A-Za-z0-9_-], not starting with a dash or
// underscore). Disk layers resolve symlinks and refuse files outside their
// directory.
package assets
