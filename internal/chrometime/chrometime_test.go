package chrometime

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEpochIsZero(t *testing.T) {
	assert.Equal(t, int64(0), FromTime(Epoch))
	assert.True(t, ToTime(0).Equal(Epoch))
}

func TestUnixEpoch(t *testing.T) {
	// Well-known constant: 1970-01-01 is 11644473600 seconds after 1601-01-01.
	assert.Equal(t, int64(11644473600000000), FromTime(time.Unix(0, 0)))
}

func TestKnownTimestamp(t *testing.T) {
	ts := time.Date(2024, time.March, 1, 12, 30, 0, 0, time.UTC)
	got := FromTime(ts)
	assert.Equal(t, int64(13353769800000000), got)
	assert.True(t, ToTime(got).Equal(ts))
}

func TestRoundTripWithinMillisecond(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	base := time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		d := base.Add(time.Duration(r.Int64N(int64(40 * 365 * 24 * time.Hour))))
		back := ToTime(FromTime(d))
		diff := d.Sub(back)
		if diff < 0 {
			diff = -diff
		}
		assert.Less(t, diff, time.Millisecond, "round trip of %s", d)
	}
}

func TestLocalTimeRoundTrip(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	d := time.Date(2023, time.July, 14, 8, 0, 0, 123456000, loc)
	assert.True(t, ToTime(FromTime(d)).Equal(d))
}
