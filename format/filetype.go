package format

import "strings"

const (
	// FileTypeGFF is the generic magic tag accepted by default.
	FileTypeGFF = "GFF "
	// VersionV32 is the only version tag the codec writes.
	VersionV32 = "V3.2"
	// TagSize is the width of the magic and version tags.
	TagSize = 4
)

// KnownFileTypes maps lower-case file extensions of GFF based resources to
// the magic tag those files carry.
var KnownFileTypes = map[string]string{
	"gff": "GFF ",
	"bic": "BIC ",
	"utc": "UTC ",
	"utd": "UTD ",
	"ute": "UTE ",
	"uti": "UTI ",
	"utm": "UTM ",
	"utp": "UTP ",
	"uts": "UTS ",
	"utt": "UTT ",
	"utw": "UTW ",
}

// FileTypeForExtension returns the magic tag for a file extension such as
// "utc" or ".UTC". ok is false when the extension is not a GFF resource.
func FileTypeForExtension(ext string) (string, bool) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	tag, ok := KnownFileTypes[ext]

	return tag, ok
}

// NormalizeTag pads a tag with spaces to TagSize bytes. ok is false when the
// tag is longer than TagSize.
func NormalizeTag(tag string) (string, bool) {
	if len(tag) > TagSize {
		return "", false
	}

	return tag + strings.Repeat(" ", TagSize-len(tag)), true
}
