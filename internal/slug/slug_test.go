package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Leading and trailing  ", "leading-and-trailing"},
		{"Multiple   spaces", "multiple-spaces"},
		{"Crème brûlée", "creme-brulee"},
		{"100% Legit!", "100-legit"},
		{"--already--hyphenated--", "already-hyphenated"},
		{"日本語", ""},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Make(c.in), "Make(%q)", c.in)
	}
}

func TestWithSuffix(t *testing.T) {
	a := WithSuffix("hello-world")
	b := WithSuffix("hello-world")
	assert.NotEqual(t, a, b)
	assert.True(t, IsValid(a), "suffixed slug %q must stay valid", a)
	assert.Contains(t, a, "hello-world-")

	// Empty base still yields a usable slug.
	assert.True(t, IsValid(WithSuffix("")))
}

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("hello-world-123"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("-leading"))
	assert.False(t, IsValid("trailing-"))
	assert.False(t, IsValid("UPPER"))
	assert.False(t, IsValid("double--hyphen"))
	assert.False(t, IsValid("spaced out"))
}
