package gmail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSearchQuery(t *testing.T) {
	assert.Equal(t, "from:a@b.com", buildSearchQuery("from:a@b.com", nil))
	assert.Equal(t, "travel after:2024/01/01 before:2024/02/01",
		buildSearchQuery("travel", &DateRange{Start: "2024/01/01", End: "2024/02/01"}))
	assert.Equal(t, "receipt after:2024/01/01",
		buildSearchQuery("receipt", &DateRange{Start: "2024/01/01"}))
	assert.Equal(t, "receipt before:2024/02/01",
		buildSearchQuery("receipt", &DateRange{End: "2024/02/01"}))
	assert.Equal(t, " after:2024/01/01 before:2024/02/01",
		buildSearchQuery("", &DateRange{Start: "2024/01/01", End: "2024/02/01"}))
}
