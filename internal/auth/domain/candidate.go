package domain

// Candidate is the classified credential found on a request. Primary holds the
// token (SchemeToken) or the email (SchemeBasic); Secondary holds the password.
type Candidate struct {
	Scheme    Scheme
	Source    Source
	Primary   string
	Secondary string //nolint:gosec // plain password, never persisted or logged
}

// NoCandidate is returned when nothing usable was presented.
var NoCandidate = Candidate{Scheme: SchemeNone, Source: SourceNone}

// IsNone reports whether the candidate carries no credential.
func (c Candidate) IsNone() bool {
	return c.Scheme == SchemeNone || c.Scheme == ""
}
