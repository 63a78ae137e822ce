package gmail

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalSender(t *testing.T) {
	assert.Equal(t, "jane@example.com", CanonicalSender("Jane Doe <jane@example.com>"))
	assert.Equal(t, "bare@example.com", CanonicalSender("bare@example.com"))
	assert.Equal(t, "", CanonicalSender(""))
}

func emailFrom(from, date string) NormalizedEmail {
	return NormalizedEmail{From: from, Date: date}
}

func TestComputeStatisticsEmpty(t *testing.T) {
	assert.Equal(t, Statistics{}, ComputeStatistics(nil))
	assert.Equal(t, Statistics{}, ComputeStatistics([]NormalizedEmail{}))
}

func TestComputeStatisticsCounts(t *testing.T) {
	emails := []NormalizedEmail{
		emailFrom("Alice <alice@x.com>", "2024-03-01 09:00:00"),
		emailFrom("alice@x.com", "2024-03-02 09:00:00"),
		emailFrom("Bob <bob@x.com>", "2024-02-15 09:00:00"),
	}
	stats := ComputeStatistics(emails)

	assert.Equal(t, 3, stats.TotalEmails)
	assert.Equal(t, 2, stats.UniqueSenders)
	assert.Equal(t, []SenderCount{
		{Sender: "alice@x.com", Count: 2},
		{Sender: "bob@x.com", Count: 1},
	}, stats.TopSenders)
	assert.Equal(t, "2024-02-15 09:00:00", stats.EarliestDate)
	assert.Equal(t, "2024-03-02 09:00:00", stats.LatestDate)
}

func TestComputeStatisticsTieOrder(t *testing.T) {
	// Equal counts keep first-encounter order.
	emails := []NormalizedEmail{
		emailFrom("b@x.com", "2024-01-01 00:00:00"),
		emailFrom("a@x.com", "2024-01-02 00:00:00"),
	}
	stats := ComputeStatistics(emails)
	assert.Equal(t, "b@x.com", stats.TopSenders[0].Sender)
	assert.Equal(t, "a@x.com", stats.TopSenders[1].Sender)
}

func TestComputeStatisticsTopTenCap(t *testing.T) {
	var emails []NormalizedEmail
	for i := 0; i < 12; i++ {
		sender := fmt.Sprintf("s%02d@x.com", i)
		// Earlier senders get more mail so the ranking is deterministic.
		for j := 0; j < 12-i; j++ {
			emails = append(emails, emailFrom(sender, "2024-01-01 00:00:00"))
		}
	}
	stats := ComputeStatistics(emails)

	assert.Equal(t, 12, stats.UniqueSenders)
	assert.Len(t, stats.TopSenders, 10)
	assert.Equal(t, "s00@x.com", stats.TopSenders[0].Sender)
	assert.Equal(t, 12, stats.TopSenders[0].Count)
	assert.Equal(t, "s09@x.com", stats.TopSenders[9].Sender)
}

func TestComputeStatisticsSingleEmail(t *testing.T) {
	stats := ComputeStatistics([]NormalizedEmail{emailFrom("only@x.com", "2024-05-01 10:00:00")})
	assert.Equal(t, "2024-05-01 10:00:00", stats.EarliestDate)
	assert.Equal(t, "2024-05-01 10:00:00", stats.LatestDate)
}
