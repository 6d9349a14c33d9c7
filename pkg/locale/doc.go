// Package locale provides message translation for a language tag.
//
// Messages are grouped in domains. Each domain is a YAML catalog stored as
// "<tag>/<domain>.yaml" in an fs.FS; nested keys are flattened with dots:
//
//	# de/blog.yaml
//	Posts: Beiträge
//	post:
//	  saved: "Beitrag %q gespeichert"
//
// A [Locale] binds a domain on its first Translate call:
//
//	l := locale.New("de", locale.WithPath(os.DirFS("locale")), locale.WithFallback("en"))
//	l.Translate("blog", "Posts")                // "Beiträge"
//	l.Translate("blog", "post.saved", "Hello")  // "Beitrag \"Hello\" gespeichert"
//	l.Translate("blog", "Unknown")              // "Unknown"
//
// Without args the text is returned as is, so catalog entries containing a
// literal percent sign stay intact.
//
// [Negotiate] matches an Accept-Language header against supported tags with
// golang.org/x/text/language, and a [Bundle] caches one Locale per tag.
package locale
