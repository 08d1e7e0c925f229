package youtube

import "regexp"

// videoIDPatterns are tried in order; the first capture group is the video ID.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=([^&#]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([^?/#]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/([^/?#]+)`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([^/?#]+)`),
}

// ExtractVideoID pulls the video ID out of a watch, short-link, embed or shorts URL.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, re := range videoIDPatterns {
		if m := re.FindStringSubmatch(rawURL); len(m) >= 2 && m[1] != "" {
			return m[1], true
		}
	}
	return "", false
}
