package simplepreview

import "strings"

// Extension groups. Code extensions render the same as plain text, so they
// fold into the text-like category. Archives have no inline rendering and
// classify as unsupported.
var (
	imageExtensions = []string{
		"png", "jpg", "jpeg", "gif", "webp", "svg", "bmp",
		"tiff", "tif", "ico", "heic", "heif",
	}
	pdfExtensions    = []string{"pdf"}
	officeExtensions = []string{
		"pptx", "ppt", "docx", "doc", "xlsx", "xls", "odt", "odp", "ods",
	}
	textExtensions = []string{
		"txt", "csv", "md", "markdown", "log", "rtf", "xml", "json",
		"yaml", "yml", "ini", "conf", "cfg",
	}
	codeExtensions = []string{
		"js", "jsx", "ts", "tsx", "py", "java", "c", "cpp", "cs",
		"php", "rb", "go", "rs", "swift", "kt", "dart",
	}
	audioExtensions = []string{
		"mp3", "wav", "ogg", "m4a", "flac", "aac", "wma", "opus", "weba",
	}
	videoExtensions = []string{
		"mp4", "mov", "webm", "avi", "mkv", "wmv", "flv", "ogv", "3gp", "m4v",
	}
)

var categoryByExtension = buildCategoryIndex()

func buildCategoryIndex() map[string]FileCategory {
	index := make(map[string]FileCategory)
	add := func(exts []string, category FileCategory) {
		for _, ext := range exts {
			index[ext] = category
		}
	}
	add(imageExtensions, CategoryImage)
	add(pdfExtensions, CategoryNativePDF)
	add(officeExtensions, CategoryOfficeConvertible)
	add(textExtensions, CategoryTextLike)
	add(codeExtensions, CategoryTextLike)
	add(audioExtensions, CategoryAudio)
	add(videoExtensions, CategoryVideo)
	return index
}

// Classify maps a display name to its file category. Pure and total: the
// extension is the substring after the last dot, matched case-insensitively;
// names without a recognized extension classify as CategoryUnsupported
// rather than failing.
func Classify(displayName string) FileCategory {
	ext := extensionOf(displayName)
	if ext == "" {
		return CategoryUnsupported
	}
	if category, ok := categoryByExtension[ext]; ok {
		return category
	}
	return CategoryUnsupported
}

// NeedsConversion reports whether a category requires a server-side
// conversion round trip before it can be rendered inline.
func NeedsConversion(category FileCategory) bool {
	return category == CategoryOfficeConvertible
}

// Viewable reports whether a category has any inline rendering surface.
func Viewable(category FileCategory) bool {
	return category != CategoryUnsupported
}

// pageAnchored reports whether a category's viewer honors a #page fragment.
// Images and media players have no page concept.
func pageAnchored(category FileCategory) bool {
	return category == CategoryNativePDF || category == CategoryTextLike
}

func extensionOf(displayName string) string {
	idx := strings.LastIndex(displayName, ".")
	if idx < 0 || idx == len(displayName)-1 {
		return ""
	}
	return strings.ToLower(displayName[idx+1:])
}
