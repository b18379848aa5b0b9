package helper

import (
	"path"
	"strings"
)

type MediaKind string

const (
	MediaImage       MediaKind = "image"
	MediaVideo       MediaKind = "video"
	MediaUnsupported MediaKind = "unsupported"
)

// Media describes an attachment the way the ticket detail view renders it.
type Media struct {
	URL  string    `json:"url"`
	Kind MediaKind `json:"kind"`
	// MIME is set for videos only: video/<ext>.
	MIME string `json:"mime,omitempty"`
}

var (
	videoExts = map[string]bool{"mp4": true, "webm": true, "mov": true}
	imageExts = map[string]bool{"jpg": true, "jpeg": true, "png": true, "gif": true}
)

// MediaURL returns raw unchanged when it is absolute, otherwise raw
// resolved against the API base.
func MediaURL(apiBase, raw string) string {
	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		return raw
	}
	return strings.TrimRight(apiBase, "/") + "/" + strings.TrimLeft(raw, "/")
}

func KindOf(u string) (MediaKind, string) {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u), "."))
	switch {
	case videoExts[ext]:
		return MediaVideo, ext
	case imageExts[ext]:
		return MediaImage, ext
	}
	return MediaUnsupported, ext
}

// DescribeMedia returns nil for an empty path.
func DescribeMedia(apiBase, raw string) *Media {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	full := MediaURL(apiBase, raw)
	kind, ext := KindOf(full)
	m := &Media{URL: full, Kind: kind}
	if kind == MediaVideo {
		m.MIME = "video/" + ext
	}
	return m
}
