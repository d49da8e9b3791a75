package pagination

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		page, pageSize int
		maxSize        int
		want           Params
	}{
		{"defaults_on_zero", 0, 0, 100, Params{1, 20}},
		{"defaults_on_negative", -3, -5, 100, Params{1, 20}},
		{"keeps_valid", 3, 10, 100, Params{3, 10}},
		{"caps_at_max", 1, 500, 100, Params{1, 100}},
		{"no_cap_when_max_zero", 2, 500, 0, Params{2, 500}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, Normalize(tt.page, tt.pageSize, tt.maxSize))
		})
	}
}

func TestParams_OffsetAndLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		p          Params
		wantOffset int64
	}{
		{Params{Page: 1, PageSize: 20}, 0},
		{Params{Page: 2, PageSize: 20}, 20},
		{Params{Page: 3, PageSize: 10}, 20},
		{Params{Page: 10, PageSize: 50}, 450},
	}

	for _, tt := range tests {
		require.Equal(t, tt.wantOffset, tt.p.Offset())
		require.Equal(t, int64(tt.p.PageSize), tt.p.Limit())
	}
}

func TestFromQuery_Permissive(t *testing.T) {
	t.Parallel()

	page, size := FromQuery(url.Values{"page": {"2"}, "pageSize": {"5"}})
	require.Equal(t, 2, page)
	require.Equal(t, 5, size)

	page, size = FromQuery(url.Values{"page": {"abc"}, "pageSize": {""}})
	require.Zero(t, page)
	require.Zero(t, size)

	page, size = FromQuery(url.Values{})
	require.Zero(t, page)
	require.Zero(t, size)

	page, size = FromQuery(url.Values{"page": {"0"}, "pageSize": {"-5"}})
	got := Normalize(page, size, 100)
	require.Equal(t, Params{Page: 1, PageSize: 20}, got)
}
