package caption

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int
	}{
		{name: "ascii", in: "hello", want: 5},
		{name: "empty", in: "", want: 0},
		{name: "korean counts double", in: "태초에", want: 6},
		{name: "mixed", in: "요한복음 3:16", want: 13},
		{name: "fullwidth punctuation", in: "（）", want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayWidth(tt.in))
		})
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		maxCols int
		want    []string
	}{
		{
			name:    "fits on one line",
			in:      "short line",
			maxCols: 20,
			want:    []string{"short line"},
		},
		{
			name:    "wraps on word boundary",
			in:      "aaa bbb ccc",
			maxCols: 7,
			want:    []string{"aaa bbb", "ccc"},
		},
		{
			name:    "oversized word kept whole",
			in:      "tiny enormousword tiny",
			maxCols: 6,
			want:    []string{"tiny", "enormousword", "tiny"},
		},
		{
			name:    "korean wraps by display width",
			in:      "태초에 하나님이 천지를 창조하시니라",
			maxCols: 16,
			want:    []string{"태초에 하나님이", "천지를", "창조하시니라"},
		},
		{
			name:    "empty yields nothing",
			in:      "   ",
			maxCols: 10,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapText(tt.in, tt.maxCols))
		})
	}
}
