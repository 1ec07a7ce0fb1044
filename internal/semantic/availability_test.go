package semantic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func v(s string) *Version {
	ver, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return &ver
}

func TestParseVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Version
		wantErr bool
	}{
		{"2", Version{Major: 2}, false},
		{"2.0", Version{Major: 2}, false},
		{"13.4.1", Version{13, 4, 1}, false},
		{"", Version{}, true},
		{"1.x", Version{}, true},
		{"1.2.3.4", Version{}, true},
	}
	for _, tt := range tests {
		got, err := ParseVersion(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestIsBeta(t *testing.T) {
	t.Parallel()

	current := CurrentPlatforms{
		"P1": {Version: *v("2.0"), Beta: true},
		"P2": {Version: *v("2.0"), Beta: false},
	}

	t.Run("all_tracked_platforms_must_agree", func(t *testing.T) {
		avail := []Availability{
			{Platform: "P1", Introduced: v("2.0")},
			{Platform: "P2", Introduced: v("2.0")},
		}
		assert.False(t, IsBeta(avail, current))
		assert.True(t, IsPlatformBeta(avail[0], current))
	})

	t.Run("single_beta_platform", func(t *testing.T) {
		assert.True(t, IsBeta([]Availability{{Platform: "P1", Introduced: v("2.0")}}, current))
	})

	t.Run("introduced_earlier", func(t *testing.T) {
		assert.False(t, IsBeta([]Availability{{Platform: "P1", Introduced: v("1.0")}}, current))
	})

	t.Run("untracked_platforms_ignored", func(t *testing.T) {
		avail := []Availability{
			{Platform: "P1", Introduced: v("2.0")},
			{Platform: "Other", Introduced: v("9.0")},
		}
		assert.True(t, IsBeta(avail, current))
		assert.False(t, IsBeta([]Availability{{Platform: "Other", Introduced: v("2.0")}}, current))
	})

	t.Run("no_availability", func(t *testing.T) {
		assert.False(t, IsBeta(nil, current))
		assert.False(t, IsBeta([]Availability{{Platform: "P1", Introduced: v("2.0")}}, nil))
	})
}

func TestIsDeprecated(t *testing.T) {
	t.Parallel()

	assert.False(t, IsDeprecated(nil))
	assert.True(t, IsDeprecated([]Availability{{Platform: "P1", Deprecated: v("1.0")}, {Platform: "P2", UnconditionallyDeprecated: true}}))
	assert.False(t, IsDeprecated([]Availability{{Platform: "P1", Deprecated: v("1.0")}, {Platform: "P2"}}))
}
