package views

import "embed"

// FS html şablonlarını (layout, e-posta, public sayfalar) içerir.
//
//go:embed layouts emails public errors
var FS embed.FS
