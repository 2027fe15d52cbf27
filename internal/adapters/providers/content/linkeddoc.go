package content

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	apperrors "github.com/makerworks/safetytraining/backend/pkg/errors"
)

const linkedDocHost = "docs.google.com"

var linkedDocIDPattern = regexp.MustCompile(`/document/d/([a-zA-Z0-9_-]+)`)

func isLinkedDocURL(u *url.URL) bool {
	return strings.EqualFold(u.Host, linkedDocHost)
}

// rewriteLinkedDocURL turns a shared document link into its export-as-text
// form. Published links keep their path and swap the query string; edit links
// carry the document id in the path and are rewritten to the export endpoint.
func rewriteLinkedDocURL(u *url.URL) (string, error) {
	if strings.Contains(u.Path, "/pub") {
		rewritten := *u
		rewritten.RawQuery = "output=txt"
		return rewritten.String(), nil
	}

	if match := linkedDocIDPattern.FindStringSubmatch(u.Path); match != nil {
		return fmt.Sprintf("https://%s/document/d/%s/export?format=txt", linkedDocHost, match[1]), nil
	}

	return "", apperrors.New(apperrors.ErrorTypeUnsupportedFormat,
		fmt.Sprintf("unrecognized linked document url %s", u.String()), nil)
}
