package tripsync

import (
	"errors"
	"net/url"
	"strings"
)

// ChannelURL derives the stream endpoint from the REST base URL: the scheme
// flips to its websocket counterpart, a trailing /api segment is dropped, and
// the credential rides as a query parameter because websocket handshakes
// cannot carry custom headers from browser clients.
func ChannelURL(baseURL, tripID, token string) (string, error) {
	if tripID == "" {
		return "", errors.New("trip id required")
	}
	if token == "" {
		return "", errors.New("access token required")
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", errors.New("unsupported base url scheme: " + u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("base url missing host")
	}

	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), "/api")
	u.Path += "/ws/trips/" + tripID

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
