package strings

import (
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
)

func TestSingleLine(t *testing.T) {
	assert.Equal(t, "hello world", SingleLine("hello\r\n\n world"))
	assert.Equal(t, "a b", SingleLine("  a\t\tb  "))
	assert.Equal(t, "", SingleLine(" \n\t "))
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{name: "short string unchanged", input: "hello", width: 10, want: "hello"},
		{name: "exact width unchanged", input: "hello", width: 5, want: "hello"},
		{name: "long string cut", input: "hello world this is a long string", width: 15, want: "hello world ..."},
		{name: "newlines flattened", input: "hello\nworld", width: 20, want: "hello world"},
		{name: "flatten then cut", input: "This is\na multiline\n\nmessage with   extra   spaces", width: 30, want: "This is a multiline message..."},
		{name: "empty", input: "", width: 10, want: ""},
		{name: "width clamped", input: "hello", width: 0, want: "h..."},
		{name: "negative width clamped", input: "hello", width: -5, want: "h..."},
		{name: "short string with small width", input: "hi", width: 3, want: "hi"},
		{name: "wide characters fit", input: "日本語", width: 6, want: "日本語"},
		{name: "wide characters count two columns", input: "日本語テスト", width: 7, want: "日本..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.width))
		})
	}
}

func TestTruncate_StaysWithinWidth(t *testing.T) {
	for _, width := range []int{4, 5, 9, 20} {
		got := Truncate("今日のミーティングは十五時からです。資料を確認してください。", width)
		assert.LessOrEqual(t, runewidth.StringWidth(got), width, "width %d: %q", width, got)
	}
}
