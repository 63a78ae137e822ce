package gmail

import (
	"regexp"
	"sort"
)

const topSenderLimit = 10

var senderAddrPattern = regexp.MustCompile(`<(.+?)>`)

// CanonicalSender reduces a From header to the angle-bracketed address when
// one is present ("Jane Doe <jane@x.com>" -> "jane@x.com"); otherwise the
// full header value is the key.
func CanonicalSender(from string) string {
	if m := senderAddrPattern.FindStringSubmatch(from); m != nil {
		return m[1]
	}
	return from
}

// ComputeStatistics aggregates sender frequency and the observed date range
// over a batch of emails. An empty batch yields the zero value, not an
// error. Ties in the top-senders ranking keep first-encounter order.
func ComputeStatistics(emails []NormalizedEmail) Statistics {
	if len(emails) == 0 {
		return Statistics{}
	}

	counts := make(map[string]int, len(emails))
	order := make([]string, 0, len(emails))
	var earliest, latest string

	for i, e := range emails {
		sender := CanonicalSender(e.From)
		if _, seen := counts[sender]; !seen {
			order = append(order, sender)
		}
		counts[sender]++

		if i == 0 || e.Date < earliest {
			earliest = e.Date
		}
		if i == 0 || e.Date > latest {
			latest = e.Date
		}
	}

	top := make([]SenderCount, 0, len(order))
	for _, sender := range order {
		top = append(top, SenderCount{Sender: sender, Count: counts[sender]})
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Count > top[j].Count
	})
	if len(top) > topSenderLimit {
		top = top[:topSenderLimit]
	}

	return Statistics{
		TotalEmails:   len(emails),
		UniqueSenders: len(counts),
		TopSenders:    top,
		EarliestDate:  earliest,
		LatestDate:    latest,
	}
}
