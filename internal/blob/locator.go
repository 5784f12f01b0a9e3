package blob

import (
	"fmt"
	"strings"
)

// Scheme is the only URL scheme blob locators accept.
const Scheme = "s3"

// Locator addresses one object in a blob store as container (bucket) and key.
//
// The path after the container is kept verbatim: "?" and "#" belong to the key,
// so s3://bucket/a?b#c names the object "a?b#c" in "bucket".
type Locator struct {
	scheme    string
	container string
	path      string
}

// Parse splits a scheme://container/key URL. It does not check the scheme;
// see ParseS3.
func Parse(raw string) (Locator, error) {
	i := strings.Index(raw, "://")
	if i <= 0 {
		return Locator{}, fmt.Errorf("blob: %q is not a scheme://container/key URL", raw)
	}

	scheme := strings.ToLower(raw[:i])
	rest := raw[i+3:]

	end := strings.IndexAny(rest, "/?#")
	if end < 0 {
		end = len(rest)
	}

	return Locator{
		scheme:    scheme,
		container: rest[:end],
		path:      rest[end:],
	}, nil
}

// ParseS3 parses raw and requires the s3 scheme, a container and a key.
func ParseS3(raw string) (Locator, error) {
	loc, err := Parse(raw)
	if err != nil {
		return Locator{}, err
	}
	if loc.scheme != Scheme {
		return Locator{}, fmt.Errorf("blob: %q has scheme %q, expected %q", raw, loc.scheme, Scheme)
	}
	if loc.container == "" {
		return Locator{}, fmt.Errorf("blob: %q has no bucket", raw)
	}
	if loc.Key() == "" {
		return Locator{}, fmt.Errorf("blob: %q has no key", raw)
	}
	return loc, nil
}

// Scheme returns the lower-cased URL scheme.
func (l Locator) Scheme() string {
	return l.scheme
}

// Container returns the bucket-like namespace.
func (l Locator) Container() string {
	return l.container
}

// Key returns the object path inside the container, without leading slashes.
func (l Locator) Key() string {
	return strings.TrimLeft(l.path, "/")
}

// URL reconstructs the canonical URL.
func (l Locator) URL() string {
	return l.scheme + "://" + l.container + l.path
}

func (l Locator) String() string {
	return l.URL()
}
