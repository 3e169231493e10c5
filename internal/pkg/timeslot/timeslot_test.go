package timeslot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) TimeOfDay {
	t.Helper()
	tod, err := Parse(s)
	require.NoError(t, err)
	return tod
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "09:30", want: 570},
		{in: "23:59", want: 1439},
		{in: "09:30:00", want: 570},
		{in: "9:30", want: 570},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "noon", wantErr: true},
		{in: "", wantErr: true},
		{in: "10:00pm", wantErr: true},
		{in: "10:00 ", wantErr: true},
		{in: "10:00:00x", wantErr: true},
		{in: "1000", wantErr: true},
		{in: "-1:30", wantErr: true},
		{in: "10:-5", wantErr: true},
		{in: "10:00:61", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "09:05", TimeOfDay(545).String())
	assert.Equal(t, "00:00", TimeOfDay(0).String())
	assert.Equal(t, "23:59", TimeOfDay(1439).String())
}

func TestOverlaps(t *testing.T) {
	iv := func(start, end string) Interval {
		return NewInterval(mustParse(t, start), mustParse(t, end))
	}

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{name: "disjoint before", a: iv("09:00", "10:00"), b: iv("11:00", "12:00"), want: false},
		{name: "touching boundary does not overlap", a: iv("09:00", "10:00"), b: iv("10:00", "11:00"), want: false},
		{name: "partial overlap", a: iv("09:00", "10:30"), b: iv("10:00", "11:00"), want: true},
		{name: "candidate inside existing", a: iv("10:15", "10:45"), b: iv("10:00", "11:00"), want: true},
		{name: "candidate contains existing", a: iv("09:00", "12:00"), b: iv("10:00", "11:00"), want: true},
		{name: "identical", a: iv("10:00", "11:00"), b: iv("10:00", "11:00"), want: true},
		{name: "one minute shared", a: iv("09:00", "10:01"), b: iv("10:00", "11:00"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			// Overlap must be symmetric.
			assert.Equal(t, Overlaps(tt.a, tt.b), Overlaps(tt.b, tt.a))
		})
	}
}

func TestIntervalValid(t *testing.T) {
	assert.True(t, NewInterval(540, 600).Valid())
	assert.False(t, NewInterval(600, 600).Valid(), "zero-length interval is invalid")
	assert.False(t, NewInterval(600, 540).Valid(), "end before start is invalid")
	assert.False(t, NewInterval(-1, 60).Valid())
}

func TestIntervalContains(t *testing.T) {
	iv := NewInterval(540, 600) // 09:00-10:00
	assert.True(t, iv.Contains(540))
	assert.True(t, iv.Contains(599))
	assert.False(t, iv.Contains(600), "end boundary is exclusive")
	assert.False(t, iv.Contains(539))
}
