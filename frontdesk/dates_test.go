package frontdesk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBusinessDate(t *testing.T) {
	p := Policy{CutoffHour: 6}
	cases := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"midnight", at(10, 0, 0), at(9, 0, 0)},
		{"just before cutoff", at(10, 5, 59), at(9, 0, 0)},
		{"at cutoff", at(10, 6, 0), at(10, 0, 0)},
		{"evening", at(10, 23, 30), at(10, 0, 0)},
		{"month boundary", time.Date(2026, time.March, 1, 2, 0, 0, 0, time.UTC), time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, SameDate(DateOf(tc.want), p.BusinessDate(tc.now)))
		})
	}
}

func TestBusinessDateZeroCutoff(t *testing.T) {
	p := Policy{}
	assert.True(t, SameDate(DateOf(at(10, 0, 0)), p.BusinessDate(at(10, 0, 1))))
}

func TestBefore(t *testing.T) {
	assert.True(t, Before(DateOf(at(9, 23, 0)), DateOf(at(10, 1, 0))))
	assert.False(t, Before(DateOf(at(10, 23, 0)), DateOf(at(10, 1, 0))))
	assert.False(t, Before(DateOf(at(11, 0, 0)), DateOf(at(10, 1, 0))))
	assert.True(t, SameDate(AddDays(DateOf(at(31, 0, 0)), 1), DateOf(time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))))
}
