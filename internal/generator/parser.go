package generator

import "strings"

// parseState tracks which section of the response is being read. The
// model contract is line-oriented: a "Subject:" line, a "Body:"
// section running until "CTA:", then the CTA line.
type parseState int

const (
	stateNone parseState = iota
	stateSubject
	stateBody
	stateCTA
)

// defaultCTA fills in when the response carries subject and body but
// no CTA line.
const defaultCTA = "Learn More"

// parsedEmail is the raw outcome of parsing a model response.
type parsedEmail struct {
	Subject string
	Body    string
	CTA     string
}

// ok reports whether the parse met the success criterion: both
// subject and body non-empty. A missing CTA alone does not fail the
// parse; it defaults.
func (p parsedEmail) ok() bool {
	return p.Subject != "" && p.Body != ""
}

// parseResponse scans the model response line by line, switching
// state on recognized prefixes and accumulating body lines until the
// next recognized prefix. Lines are whitespace-trimmed; blank lines
// inside the body are dropped.
func parseResponse(response string) parsedEmail {
	var parsed parsedEmail
	var bodyLines []string

	state := stateNone
	for _, line := range strings.Split(response, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Subject:"):
			parsed.Subject = strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
			state = stateSubject
		case strings.HasPrefix(line, "Body:"):
			state = stateBody
		case strings.HasPrefix(line, "CTA:"):
			parsed.CTA = strings.TrimSpace(strings.TrimPrefix(line, "CTA:"))
			state = stateCTA
		case state == stateBody && line != "":
			bodyLines = append(bodyLines, line)
		}
	}

	parsed.Body = strings.TrimSpace(strings.Join(bodyLines, "\n"))
	if parsed.ok() && parsed.CTA == "" {
		parsed.CTA = defaultCTA
	}
	return parsed
}
