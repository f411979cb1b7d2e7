// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package web renders the server-side pages from embedded templates.

Templates live under templates/: base.tmpl holds the layout, includes/
holds shared partials (sidebar, message) and pages/ holds one file per page.
Templates get the sprig HTML function map plus:

  - ago: relative time via go-humanize ("3 minutes ago")
  - cell: formats a table value from decoded JSON
  - chartSrc: allows http(s) URLs and image data URIs in <img src>
*/
package web
