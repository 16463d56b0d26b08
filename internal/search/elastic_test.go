package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeHits(t *testing.T) {
	t.Parallel()

	body := `{"hits":{"total":{"value":7},"hits":[{"_source":{"id":3}},{"_source":{"id":1}}]}}`
	total, ids, err := decodeHits(strings.NewReader(body))
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	assert.Equal(t, []uint{3, 1}, ids)

	_, _, err = decodeHits(strings.NewReader("{"))
	assert.Error(t, err)
}
