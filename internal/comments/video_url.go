package comments

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	videoPathRE    = regexp.MustCompile(`^/(?:shorts|embed|live|v)/([A-Za-z0-9_-]{11})`)
)

// ExtractVideoID pulls the 11 character video ID out of a YouTube URL. It
// understands watch?v= links, youtu.be short links, /shorts/, /embed/ and /live/
// paths, and bare IDs. It returns "" when nothing matches.
func ExtractVideoID(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if videoIDPattern.MatchString(raw) {
		return raw
	}

	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	host = strings.TrimPrefix(host, "m.")

	switch host {
	case "youtu.be":
		id := strings.Trim(u.Path, "/")
		if videoIDPattern.MatchString(id) {
			return id
		}
	case "youtube.com", "music.youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); videoIDPattern.MatchString(v) {
			return v
		}
		if m := videoPathRE.FindStringSubmatch(u.Path); len(m) == 2 {
			return m[1]
		}
	}
	return ""
}
