package gmail

// NormalizedEmail is the flat, display-ready record built from one Gmail
// message. It is held in memory only and never written to disk.
type NormalizedEmail struct {
	ID       string
	ThreadID string
	Subject  string
	From     string
	To       string
	// Date is "2006-01-02 15:04:05" when the Date header parsed, otherwise
	// the raw header value verbatim.
	Date    string
	DateRaw string
	Body    string // flattened plain text, possibly empty
	Snippet string
	Labels  []string
	Headers map[string]string // lower-cased name -> value, last occurrence wins
}

// SenderCount is one entry of a top-senders ranking.
type SenderCount struct {
	Sender string
	Count  int
}

// Statistics summarizes a batch of normalized emails.
type Statistics struct {
	TotalEmails   int
	UniqueSenders int
	TopSenders    []SenderCount
	// Earliest/latest are string min/max over the display dates. When every
	// date parsed these compare chronologically; raw fallbacks do not.
	EarliestDate string
	LatestDate   string
}
