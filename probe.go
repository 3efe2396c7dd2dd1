package executor

import (
	"regexp"

	"github.com/pkg/errors"
)

// imageExists reports whether the runtime's local image listing already
// contains tag. A failing listing is fatal for the attempt: proceeding with
// an unverified cache state risks a false hit or an unintended rebuild.
func (e *DockerExecutor) imageExists(projectPath string, tag ImageTag) (bool, error) {
	out, err := e.Runner.CombinedOutput(projectPath, e.docker(), "images")
	if err != nil {
		return false, errors.Wrap(err, "list images")
	}
	return matchListing(out, tag), nil
}

// matchListing scans the runtime's image listing for tag. Name and tag are
// matched as independent whitespace-delimited tokens at the start of a line,
// so a tag that is a prefix of another never matches.
func matchListing(listing []byte, tag ImageTag) bool {
	var pattern *regexp.Regexp
	if tag.Digest != "" {
		pattern = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(tag.Name) + `[ \t]+` + regexp.QuoteMeta(tag.Digest) + `([ \t]|$)`)
	} else {
		pattern = regexp.MustCompile(`(?m)^` + regexp.QuoteMeta(tag.Name) + `[ \t]`)
	}
	return pattern.Match(listing)
}
