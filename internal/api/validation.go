package api

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

const maxUploadBytes = 500 << 20

var allowedUploadExts = map[string]bool{
	".mp4": true,
	".avi": true,
	".mov": true,
	".mkv": true,
}

// videoIDRe matches a bare 11-character video identifier.
var videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// videoURLRe pulls the identifier out of the common URL shapes: watch
// pages, short links, embeds and nocookie embeds.
var videoURLRe = regexp.MustCompile(`(?:https?://)?(?:www\.)?(?:youtube|youtu|youtube-nocookie)\.(?:com|be)/(?:watch\?v=|embed/|v/|shorts/)?([A-Za-z0-9_-]{11})`)

// ExtractVideoID accepts either a bare video id or any recognized URL form
// and returns the 11-character identifier.
func ExtractVideoID(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("empty video URL")
	}
	if videoIDRe.MatchString(input) {
		return input, nil
	}
	if m := videoURLRe.FindStringSubmatch(input); m != nil {
		return m[1], nil
	}
	return "", fmt.Errorf("unrecognized video URL: %q", input)
}

// ValidateUploadFilename checks the extension allowlist.
func ValidateUploadFilename(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedUploadExts[ext] {
		return fmt.Errorf("invalid file type %q: allowed are .mp4, .avi, .mov, .mkv", ext)
	}
	return nil
}
