package query_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/offerscout/offerscout/pkg/query"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips English stop words regardless of case",
			in:   "Buy Cheap iPhone 15 Pro",
			want: "iphone 15 pro",
		},
		{
			name: "strips Russian stop words",
			in:   "купить Sony PlayStation 5 цена",
			want: "sony playstation 5",
		},
		{
			name: "mixed languages",
			in:   "найти best Dell XPS 13",
			want: "dell xps 13",
		},
		{
			name: "collapses repeated whitespace",
			in:   "  Sony   WH-1000XM5  ",
			want: "sony wh-1000xm5",
		},
		{
			name: "all stop words yields empty string",
			in:   "buy cheap best price",
			want: "",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "stop word embedded in a token is kept",
			in:   "bestseller pricegun",
			want: "bestseller pricegun",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, query.Normalize(tt.in))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"Buy Cheap iPhone 15 Pro",
		"купить лучший ноутбук",
		"sony wh-1000xm5",
		"",
		"   ",
	}

	for _, in := range inputs {
		once := query.Normalize(in)
		assert.Equal(t, once, query.Normalize(once), "input %q", in)
	}
}
