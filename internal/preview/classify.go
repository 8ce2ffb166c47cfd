// Package preview resolves selected storage files into releasable media
// resource handles: classification, cancellable fetch, and strict handle
// lifecycle (at most one live handle per session).
package preview

import (
	"strings"
)

// Kind is the preview capability tag for a selected node.
type Kind string

const (
	// KindNone means nothing is selected (or a folder is).
	KindNone Kind = "none"

	KindImage Kind = "image"
	KindAudio Kind = "audio"
	KindVideo Kind = "video"

	// KindUnsupported means a file whose extension matches no media set.
	// Extensionless files land here too.
	KindUnsupported Kind = "unsupported"
)

// kindByExt maps lower-cased extensions to their preview kind.
var kindByExt = map[string]Kind{
	"png": KindImage, "jpg": KindImage, "jpeg": KindImage, "webp": KindImage, "gif": KindImage,
	"mp3": KindAudio, "wav": KindAudio, "ogg": KindAudio, "m4a": KindAudio, "aac": KindAudio,
	"mp4": KindVideo, "webm": KindVideo, "mov": KindVideo,
}

// Classify maps a node's path to a preview kind. Pure and deterministic:
// the extension is the lower-cased suffix after the last '.' in the last
// path segment.
//
// Folders classify as KindNone; use KindNone directly for "no selection".
func Classify(path string, folder bool) Kind {
	if folder {
		return KindNone
	}

	name := path
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}

	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return KindUnsupported
	}

	if kind, ok := kindByExt[strings.ToLower(name[dot+1:])]; ok {
		return kind
	}
	return KindUnsupported
}

// Streams reports whether the kind is fetched with a byte-range request.
func (k Kind) Streams() bool {
	return k == KindAudio || k == KindVideo
}

// Previewable reports whether the kind triggers a resolver fetch.
func (k Kind) Previewable() bool {
	return k == KindImage || k == KindAudio || k == KindVideo
}
